package medichain

type accountRepository struct {
	role     Role
	accounts map[ID]*Account
}

func NewAccountRepository(role Role) Repository {
	return &accountRepository{role: role, accounts: map[ID]*Account{}}
}

// NewStores returns a fully in-memory store bundle, one repository per
// role.
func NewStores() Stores {
	return Stores{
		Patients:  NewAccountRepository(RolePatient),
		Doctors:   NewAccountRepository(RoleDoctor),
		Hospitals: NewAccountRepository(RoleHospital),
	}
}

func (repo *accountRepository) Store(acc *Account) error {
	acc.Role = repo.role
	repo.accounts[acc.ID] = acc
	return nil
}

func (repo *accountRepository) Update(acc *Account) error {
	if _, ok := repo.accounts[acc.ID]; !ok {
		return ErrNotFound
	}
	repo.accounts[acc.ID] = acc
	return nil
}

func (repo *accountRepository) FindByID(id ID) (*Account, error) {
	if acc, ok := repo.accounts[id]; ok {
		return acc, nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByEmail(email string) (*Account, error) {
	for _, acc := range repo.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByUID(uid string) (*Account, error) {
	for _, acc := range repo.accounts {
		if acc.UID == uid {
			return acc, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) CountAll() (int64, error) {
	return int64(len(repo.accounts)), nil
}
