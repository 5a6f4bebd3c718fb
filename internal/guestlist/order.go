package guestlist

import "net/url"

type Field string

const (
	FieldName      Field = "name"
	FieldPeople    Field = "people"
	FieldStaying   Field = "staying_until_night"
	FieldCreatedAt Field = "created_at"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is the sort state of the attending table.
type Order struct {
	Field Field
	Dir   Direction
}

// DefaultOrder lists attendees in the order they answered.
var DefaultOrder = Order{Field: FieldCreatedAt, Dir: Asc}

func ParseField(s string) (Field, bool) {
	switch f := Field(s); f {
	case FieldName, FieldPeople, FieldStaying, FieldCreatedAt:
		return f, true
	}
	return "", false
}

// ParseOrder reads sort and dir query values, falling back to DefaultOrder
// for an unknown field and to ascending for an unknown direction.
func ParseOrder(field, dir string) Order {
	f, ok := ParseField(field)
	if !ok {
		return DefaultOrder
	}
	if Direction(dir) == Desc {
		return Order{Field: f, Dir: Desc}
	}
	return Order{Field: f, Dir: Asc}
}

// Toggle flips the direction when field is already the sort field and
// otherwise sorts ascending by field.
func (o Order) Toggle(field Field) Order {
	if o.Field == field {
		if o.Dir == Asc {
			return Order{Field: field, Dir: Desc}
		}
		return Order{Field: field, Dir: Asc}
	}
	return Order{Field: field, Dir: Asc}
}

// Indicator is the arrow shown next to a column header.
func (o Order) Indicator(field Field) string {
	switch {
	case o.Field != field:
		return "↕"
	case o.Dir == Desc:
		return "↓"
	default:
		return "↑"
	}
}

// Query encodes the order and a search query as URL query values.
func (o Order) Query(search string) string {
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	v.Set("sort", string(o.Field))
	v.Set("dir", string(o.Dir))
	return v.Encode()
}
