package medichain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	role       Role
	collection *mongo.Collection
}

func NewMongoAccountRepository(role Role, c *mongo.Collection) Repository {
	return &mongoAccountRepository{role: role, collection: c}
}

// EnsureIndexes installs unique indexes on email and uid. The
// application-level existence checks are a fast path only; these
// indexes are the authoritative guard against concurrent duplicates.
func EnsureIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (m *mongoAccountRepository) FindByID(id ID) (*Account, error) {
	return m.findAccountBy("_id", string(id))
}

func (m *mongoAccountRepository) FindByEmail(email string) (*Account, error) {
	return m.findAccountBy("email", email)
}

func (m *mongoAccountRepository) FindByUID(uid string) (*Account, error) {
	return m.findAccountBy("uid", uid)
}

func (m *mongoAccountRepository) findAccountBy(key string, val string) (*Account, error) {
	var acc Account
	sr := m.collection.FindOne(context.TODO(), bson.M{key: val})

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&acc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	acc.Role = m.role
	return &acc, nil
}

func (m *mongoAccountRepository) CountAll() (int64, error) {
	return m.collection.CountDocuments(context.TODO(), bson.M{})
}

func (m *mongoAccountRepository) Store(acc *Account) error {
	if _, err := m.collection.InsertOne(context.TODO(), acc); err != nil {
		if isDuplicateKeyError(err) {
			return ErrExistingAccount
		}
		return err
	}
	return nil
}

func (m *mongoAccountRepository) Update(acc *Account) error {
	_, err := m.collection.ReplaceOne(context.TODO(), bson.M{"_id": acc.ID}, acc)
	return err
}

func isDuplicateKeyError(err error) bool {
	we, ok := err.(mongo.WriteException)
	if !ok {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 {
			return true
		}
	}
	return false
}
