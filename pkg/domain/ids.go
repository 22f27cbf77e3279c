package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "reviewcycle/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a cycle ID can never be passed where an
// employee ID is expected.
type (
	CycleID      uuid.UUID
	EmployeeID   uuid.UUID
	PermissionID uuid.UUID
)

func (id CycleID) String() string      { return uuid.UUID(id).String() }
func (id EmployeeID) String() string   { return uuid.UUID(id).String() }
func (id PermissionID) String() string { return uuid.UUID(id).String() }

func (id CycleID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id EmployeeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PermissionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id CycleID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id EmployeeID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id PermissionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CycleID) UnmarshalText(b []byte) error {
	parsed, err := parseUUID(string(b), "cycle_id")
	if err != nil {
		return err
	}
	*id = CycleID(parsed)
	return nil
}

func (id *EmployeeID) UnmarshalText(b []byte) error {
	parsed, err := parseUUID(string(b), "employee_id")
	if err != nil {
		return err
	}
	*id = EmployeeID(parsed)
	return nil
}

func (id *PermissionID) UnmarshalText(b []byte) error {
	parsed, err := parseUUID(string(b), "permission_id")
	if err != nil {
		return err
	}
	*id = PermissionID(parsed)
	return nil
}

// NewCycleID returns a random cycle ID.
func NewCycleID() CycleID { return CycleID(uuid.New()) }

// NewEmployeeID returns a random employee ID.
func NewEmployeeID() EmployeeID { return EmployeeID(uuid.New()) }

// NewPermissionID returns a random permission ID.
func NewPermissionID() PermissionID { return PermissionID(uuid.New()) }

func ParseCycleID(s string) (CycleID, error) {
	u, err := parseUUID(s, "cycle_id")
	return CycleID(u), err
}

func ParseEmployeeID(s string) (EmployeeID, error) {
	u, err := parseUUID(s, "employee_id")
	return EmployeeID(u), err
}

func ParsePermissionID(s string) (PermissionID, error) {
	u, err := parseUUID(s, "permission_id")
	return PermissionID(u), err
}

// parseUUID enforces the shared trust-boundary rules: valid UTF-8, no embedded
// whitespace or control characters, canonical UUID syntax, and not the nil UUID.
func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" || strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	if len(s) > 64 || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}
