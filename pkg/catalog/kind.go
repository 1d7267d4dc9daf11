package catalog

import "fmt"

// Kind is the domain type for the managed entity collections.
type Kind string

// Entity kind constants (typed). The set is closed: every operation
// validates its Kind against the schema table and rejects anything else.
const (
	KindBeans    Kind = "beans"
	KindMachines Kind = "machines"
	KindSyrups   Kind = "syrups"
	KindSauces   Kind = "sauces"
	KindBlogs    Kind = "blogs"
	KindOrders   Kind = "orders"
	KindCoupons  Kind = "coupons"
)

// Kinds returns every managed entity kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindBeans,
		KindMachines,
		KindSyrups,
		KindSauces,
		KindBlogs,
		KindOrders,
		KindCoupons,
	}
}

// ParseKind maps an entity name (e.g. a URL path segment) to its Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := schemas[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

func (k Kind) String() string {
	return string(k)
}
