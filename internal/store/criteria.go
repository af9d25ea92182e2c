package store

import "strconv"

type criteriaKind uint8

const (
	criteriaInvalid criteriaKind = iota
	criteriaEmail
	criteriaSessionID
	criteriaID
)

// Criteria selects a single user in [UserRepository.FindUser].
// Build it with ByEmail, BySessionID or ByID; the zero value is rejected with
// [ErrInvalidCriteria].
type Criteria struct {
	kind  criteriaKind
	value string
	id    int64
}

// ByEmail matches the user registered under email (compared exactly).
func ByEmail(email string) Criteria {
	return Criteria{kind: criteriaEmail, value: email}
}

// BySessionID matches the user currently holding sessionID. An empty
// sessionID never matches.
func BySessionID(sessionID string) Criteria {
	return Criteria{kind: criteriaSessionID, value: sessionID}
}

// ByID matches the user with the given id.
func ByID(id int64) Criteria {
	return Criteria{kind: criteriaID, id: id}
}

// Valid reports whether c was built by one of the constructors.
func (c Criteria) Valid() bool {
	return c.kind != criteriaInvalid
}

// Column is the users column the criteria filters on.
func (c Criteria) Column() string {
	switch c.kind {
	case criteriaEmail:
		return "email"
	case criteriaSessionID:
		return "session_id"
	case criteriaID:
		return "user_id"
	default:
		return ""
	}
}

// Value is the value compared against Column.
func (c Criteria) Value() any {
	if c.kind == criteriaID {
		return c.id
	}
	return c.value
}

// matchesNothing reports criteria that can never select a user, so backends
// can skip the round trip.
func (c Criteria) matchesNothing() bool {
	return c.kind == criteriaSessionID && c.value == ""
}

// String is safe to log: it names the column, not the value.
func (c Criteria) String() string {
	switch c.kind {
	case criteriaID:
		return "user_id=" + strconv.FormatInt(c.id, 10)
	case criteriaInvalid:
		return "invalid"
	default:
		return c.Column()
	}
}
