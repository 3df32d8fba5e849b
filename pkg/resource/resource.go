// Package resource turns models into their public JSON shapes. A
// transformer decides field by field what leaves the API, so adding a
// sensitive column to a model never leaks it by accident.
//
//	type UserResource struct{ resource.Base }
//
//	func (r *UserResource) ToArray(v interface{}) resource.Map {
//	    u := v.(models.User)
//	    return resource.Map{"id": u.ID, "email": u.Email}
//	}
//
//	resource.New(&UserResource{}, user).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/shashiranjanraj/villageangel/pkg/orm"
)

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Transformer converts one model value into its public Map.
type Transformer interface {
	ToArray(v interface{}) Map
}

// Base is embedded by concrete transformers; it reserves room for
// shared behaviour without forcing each one to redeclare it.
type Base struct{}

// Resource pairs one model value with its transformer.
type Resource struct {
	via  Transformer
	item interface{}
	meta Map
}

// New wraps a single model value.
func New(via Transformer, item interface{}) *Resource {
	return &Resource{via: via, item: item}
}

// WithMeta adds a meta object beside data in the response.
func (r *Resource) WithMeta(meta Map) *Resource {
	r.meta = meta
	return r
}

// MarshalJSON lets a Resource sit inside any envelope, e.g. a
// response.Payload value.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.via.ToArray(r.item))
}

// Respond writes {"data": <transformed>} with status 200.
func (r *Resource) Respond(w http.ResponseWriter) {
	body := Map{"data": r.via.ToArray(r.item)}
	if r.meta != nil {
		body["meta"] = r.meta
	}
	send(w, body)
}

// Collection pairs a model slice with a transformer.
type Collection struct {
	via   Transformer
	items interface{}
	pages *orm.Pagination
	meta  Map
}

// CollectionOf wraps a slice of models ([]T, passed as interface{}).
func CollectionOf(via Transformer, items interface{}) *Collection {
	return &Collection{via: via, items: items}
}

// WithPagination adds a pagination object beside data.
func (c *Collection) WithPagination(p orm.Pagination) *Collection {
	c.pages = &p
	return c
}

// WithMeta adds a meta object beside data.
func (c *Collection) WithMeta(meta Map) *Collection {
	c.meta = meta
	return c
}

// MarshalJSON transforms every element, so a Collection can also be
// embedded in an envelope.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.transform())
}

// Respond writes {"data": [...]} with status 200.
func (c *Collection) Respond(w http.ResponseWriter) {
	body := Map{"data": c.transform()}
	if c.pages != nil {
		body["pagination"] = c.pages
	}
	if c.meta != nil {
		body["meta"] = c.meta
	}
	send(w, body)
}

// transform walks the slice reflectively; each element reaches the
// transformer as its concrete model type.
func (c *Collection) transform() []Map {
	rv := reflect.ValueOf(c.items)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return []Map{}
	}

	out := make([]Map, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = c.via.ToArray(rv.Index(i).Interface())
	}
	return out
}

func send(w http.ResponseWriter, body Map) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
