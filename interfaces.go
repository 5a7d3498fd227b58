package medichain

type Service interface {
	Signup(req signupRequest) (*Account, string, error)
	Login(req loginRequest) (*Account, string, error)
	Account(role Role, id ID) (*Account, error)
	AttachDocument(patientID ID, fileURL string) (*Account, error)
}

// Repository is the store for a single role's collection.
type Repository interface {
	FindByID(id ID) (*Account, error)
	FindByEmail(email string) (*Account, error)
	FindByUID(uid string) (*Account, error)
	CountAll() (int64, error)
	Store(acc *Account) error
	Update(acc *Account) error
}

// Stores bundles the three per-role repositories.
type Stores struct {
	Patients  Repository
	Doctors   Repository
	Hospitals Repository
}

func (s Stores) ForRole(role Role) Repository {
	switch role {
	case RolePatient:
		return s.Patients
	case RoleDoctor:
		return s.Doctors
	case RoleHospital:
		return s.Hospitals
	}
	return nil
}

type signupRequest struct {
	Role           Role   `json:"role"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
