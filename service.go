package medichain

import (
	"fmt"
	"time"
)

type service struct {
	stores Stores
	tokens *TokenIssuer
}

func NewService(stores Stores, tokens *TokenIssuer) Service {
	return &service{stores: stores, tokens: tokens}
}

var rolePaths = map[Role]string{
	RolePatient:  "/patient-portal",
	RoleDoctor:   "/doctor-dashboard",
	RoleHospital: "/hospital-admin",
}

// RedirectPath maps a role to the landing path the frontend should
// navigate to after a successful signup or login.
func RedirectPath(role Role) string {
	if p, ok := rolePaths[role]; ok {
		return p
	}
	return "/"
}

// Signup validates the request in a fixed order (role, common fields,
// duplicate email within the role's collection, role-specific fields),
// then hashes the password, assigns a uid and persists the account.
// The returned token binds the account id, role and uid.
func (svc *service) Signup(req signupRequest) (*Account, string, error) {
	acc, err := NewAccount(req.Role, req.Name, req.Email)
	if err != nil {
		return nil, "", err
	}

	if req.Password == "" {
		return nil, "", ErrMissingFields
	}

	accounts := svc.stores.ForRole(req.Role)
	if err := verifyEmailNotInUse(accounts, req.Email); err != nil {
		return nil, "", err
	}

	if req.Role == RolePatient || req.Role == RoleDoctor {
		if req.DOB == "" || req.Gender == "" {
			return nil, "", ErrMissingProfile
		}
		acc.DOB = req.DOB
		acc.Gender = req.Gender

		if req.Role == RoleDoctor {
			if req.Specialization == "" || req.LicenseNumber == "" {
				return nil, "", ErrMissingLicense
			}
			acc.Specialization = req.Specialization
			acc.LicenseNumber = req.LicenseNumber
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	acc.Password = hash

	uid, err := GenerateUID(req.Role, accounts)
	if err != nil {
		return nil, "", err
	}
	acc.UID = uid

	acc.ID = NewID()
	acc.CreatedAt = time.Now().UTC()
	if err := accounts.Store(acc); err != nil {
		if err == ErrExistingAccount {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error saving account: %s", err)
	}

	token, err := svc.tokens.IssueSignup(acc)
	if err != nil {
		return nil, "", err
	}

	return acc, token, nil
}

// Login verifies the supplied credentials against all three collections
// and returns the matching account with a fresh session token. The role
// is derived from the collection that produced the match.
func (svc *service) Login(req loginRequest) (*Account, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", ErrMissingCredentials
	}

	acc, err := svc.findAccountByEmail(req.Email)
	if err != nil {
		return nil, "", err
	}

	if !hashMatchesPassword(acc.Password, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.tokens.IssueSession(acc)
	if err != nil {
		return nil, "", err
	}

	return acc, token, nil
}

// findAccountByEmail searches the collections in fixed precedence order
// (patient, doctor, hospital) and stops at the first match. An email
// present in more than one collection only ever resolves to the
// earliest role.
func (svc *service) findAccountByEmail(email string) (*Account, error) {
	for _, role := range []Role{RolePatient, RoleDoctor, RoleHospital} {
		acc, err := svc.stores.ForRole(role).FindByEmail(email)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		return acc, nil
	}
	return nil, ErrNotFound
}

func (svc *service) Account(role Role, id ID) (*Account, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return svc.stores.ForRole(role).FindByID(id)
}

// AttachDocument appends a stored file URL to a patient's medical
// documents. Role enforcement happens at the handler.
func (svc *service) AttachDocument(patientID ID, fileURL string) (*Account, error) {
	patient, err := svc.stores.Patients.FindByID(patientID)
	if err != nil {
		return nil, err
	}

	patient.MedicalDocuments = append(patient.MedicalDocuments, fileURL)
	if err := svc.stores.Patients.Update(patient); err != nil {
		return nil, err
	}

	return patient, nil
}

func verifyEmailNotInUse(accounts Repository, email string) error {
	existing, err := accounts.FindByEmail(email)
	if err != nil && err != ErrNotFound {
		return err
	}
	if existing != nil {
		return ErrExistingAccount
	}
	return nil
}
