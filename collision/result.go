package collision

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/r3"
)

// NoPrimitive marks the primitive index of an object that has no sub parts, such as a sphere.
const NoPrimitive = -1

// Contact is one point of contact between a height field and a shape, in world coordinates.
type Contact struct {
	Object1 string `json:"object1"`
	Object2 string `json:"object2"`
	// B1 is the height field leaf the contact lies on, B2 is NoPrimitive.
	B1 int `json:"b1"`
	B2 int `json:"b2"`

	NearestPoints [2]r3.Vector `json:"nearest_points"`
	Position      r3.Vector    `json:"position"`
	// Normal points from the height field to the shape.
	Normal r3.Vector `json:"normal"`
	// PenetrationDepth is the signed distance between the objects, negative when they overlap.
	PenetrationDepth float64 `json:"penetration_depth"`
}

// NewContact returns a contact positioned halfway between its nearest points.
func NewContact(o1, o2 string, b1, b2 int, p1, p2, normal r3.Vector, depth float64) Contact {
	return Contact{
		Object1:          o1,
		Object2:          o2,
		B1:               b1,
		B2:               b2,
		NearestPoints:    [2]r3.Vector{p1, p2},
		Position:         p1.Add(p2).Mul(0.5),
		Normal:           normal,
		PenetrationDepth: depth,
	}
}

// CollisionResult accumulates the contacts of one query. It is not safe for concurrent use.
type CollisionResult struct {
	contacts []Contact

	// DistanceLowerBound is a lower bound on the distance between the objects, tightened as the query runs.
	DistanceLowerBound float64 `json:"distance_lower_bound"`
	// NearestPoints and Normal go with the leaf that set DistanceLowerBound.
	NearestPoints [2]r3.Vector `json:"nearest_points"`
	Normal        r3.Vector    `json:"normal"`

	Stats *Stats `json:"stats,omitempty"`
}

// NewCollisionResult returns an empty result.
func NewCollisionResult() *CollisionResult {
	return &CollisionResult{DistanceLowerBound: math.MaxFloat64}
}

// AddContact appends c.
func (r *CollisionResult) AddContact(c Contact) {
	r.contacts = append(r.contacts, c)
}

// NumContacts returns the number of contacts found.
func (r *CollisionResult) NumContacts() int {
	return len(r.contacts)
}

// IsCollision reports whether any contact was found.
func (r *CollisionResult) IsCollision() bool {
	return len(r.contacts) > 0
}

// Contact returns contact i.
func (r *CollisionResult) Contact(i int) Contact {
	return r.contacts[i]
}

// Contacts returns a copy of the contacts.
func (r *CollisionResult) Contacts() []Contact {
	return append([]Contact(nil), r.contacts...)
}

// UpdateDistanceLowerBound lowers the bound to d if d is smaller.
func (r *CollisionResult) UpdateDistanceLowerBound(d float64) {
	if d < r.DistanceLowerBound {
		r.DistanceLowerBound = d
	}
}

// updateFromVolume tightens the bound from a disjoint volume test. Volumes cannot see penetration, so once the
// bound is not positive they carry no information.
func (r *CollisionResult) updateFromVolume(sqrLowerBound float64) {
	if r.DistanceLowerBound <= 0 {
		return
	}
	r.UpdateDistanceLowerBound(math.Sqrt(sqrLowerBound))
}

// updateFromLeaf tightens the bound from an exact leaf test and remembers where it came from.
func (r *CollisionResult) updateFromLeaf(d float64, p1, p2, normal r3.Vector) {
	if d < r.DistanceLowerBound {
		r.DistanceLowerBound = d
		r.NearestPoints = [2]r3.Vector{p1, p2}
		r.Normal = normal
	}
}

// MarshalJSON includes the contacts alongside the exported fields.
func (r *CollisionResult) MarshalJSON() ([]byte, error) {
	type plain CollisionResult
	return json.Marshal(struct {
		Contacts []Contact `json:"contacts"`
		*plain
	}{Contacts: r.Contacts(), plain: (*plain)(r)})
}

// Clear empties the result for reuse.
func (r *CollisionResult) Clear() {
	r.contacts = nil
	r.DistanceLowerBound = math.MaxFloat64
	r.NearestPoints = [2]r3.Vector{}
	r.Normal = r3.Vector{}
	r.Stats = nil
}

// DistanceResult holds the running minimum of a distance query.
type DistanceResult struct {
	MinDistance   float64      `json:"min_distance"`
	NearestPoints [2]r3.Vector `json:"nearest_points"`
	Normal        r3.Vector    `json:"normal"`
	Object1       string       `json:"object1"`
	Object2       string       `json:"object2"`
	B1            int          `json:"b1"`
	B2            int          `json:"b2"`

	Stats *Stats `json:"stats,omitempty"`
}

// NewDistanceResult returns a result with no distance found yet.
func NewDistanceResult() *DistanceResult {
	return &DistanceResult{MinDistance: math.MaxFloat64, B1: NoPrimitive, B2: NoPrimitive}
}

// Update records d if it is strictly smaller than the current minimum. Ties keep the earlier minimum.
func (r *DistanceResult) Update(d float64, o1, o2 string, b1, b2 int, p1, p2, normal r3.Vector) bool {
	if d >= r.MinDistance {
		return false
	}
	r.MinDistance = d
	r.Object1, r.Object2 = o1, o2
	r.B1, r.B2 = b1, b2
	r.NearestPoints = [2]r3.Vector{p1, p2}
	r.Normal = normal
	return true
}

// Found reports whether any distance was recorded.
func (r *DistanceResult) Found() bool {
	return r.MinDistance < math.MaxFloat64
}
