package medichain

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/xid"
)

// Role determines which collection holds an account and which extra
// fields are required at signup.
type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleHospital Role = "hospital"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor || r == RoleHospital
}

// UIDPrefix is the role's human-readable identifier prefix.
func (r Role) UIDPrefix() string {
	switch r {
	case RolePatient:
		return "PAT"
	case RoleDoctor:
		return "DOC"
	case RoleHospital:
		return "HOS"
	}
	return ""
}

type ID string

// Account is the identity record for a patient, doctor or hospital.
// Role is derived from the collection a record lives in and is never
// persisted. Password holds the bcrypt hash and never serializes to JSON.
type Account struct {
	ID               ID       `bson:"_id" json:"id"`
	UID              string   `bson:"uid" json:"uid"`
	Role             Role     `bson:"-" json:"role"`
	Name             string   `bson:"name" json:"name"`
	Email            string   `bson:"email" json:"email"`
	Password         string   `bson:"password" json:"-"`
	DOB              string   `bson:"dob,omitempty" json:"dob,omitempty"`
	Gender           string   `bson:"gender,omitempty" json:"gender,omitempty"`
	Specialization   string   `bson:"specialization,omitempty" json:"specialization,omitempty"`
	LicenseNumber    string   `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	MedicalDocuments []string `bson:"medicalDocuments,omitempty" json:"medicalDocuments,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

var (
	ErrInvalidRole        = errors.New("role must be patient, doctor or hospital")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrExistingAccount    = errors.New("an account with this email already exists")
	ErrMissingProfile     = errors.New("dob and gender are required")
	ErrMissingLicense     = errors.New("specialization and license number are required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NewAccount validates the role and the common required fields and
// returns a new Account if arguments are valid.
func NewAccount(role Role, name string, email string) (*Account, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if name == "" || email == "" {
		return nil, ErrMissingFields
	}

	return &Account{Role: role, Name: name, Email: email}, nil
}

func NewID() ID {
	return ID(xid.New().String())
}

//IsValidID checks if a given id is valid based on the xid library definition of a valid id
// this method should change if we ever change our id generation library
func IsValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}

func hashMatchesPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
