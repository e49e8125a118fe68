package models

// AllResources is the pseudo resource id used to request aggregated
// availability across every doctor on the roster.
const AllResources = "all"

// Resource is a bookable doctor. The roster is owned by the admin module;
// this engine only ever reads it.
type Resource struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
