// internal/app/store/localities/localitystore.go
package localitystore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding localities.
const Collection = "localities"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Create(ctx context.Context, loc models.Locality) (models.Locality, error) {
	now := time.Now().UTC()
	loc.ID = primitive.NewObjectID()
	loc.NameCI = text.Fold(loc.Name)
	loc.CreatedAt = now
	loc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, loc); err != nil {
		return models.Locality{}, storeerr.Wrap("localities.create", err)
	}
	return loc, nil
}

// GetByID returns storeerr.ErrNotFound when no locality has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Locality, error) {
	var loc models.Locality
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&loc)
	if err == mongo.ErrNoDocuments {
		return models.Locality{}, storeerr.NotFound("locality", id.Hex())
	}
	if err != nil {
		return models.Locality{}, storeerr.Wrap("localities.get", err)
	}
	return loc, nil
}

// ListAll returns every locality ordered by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Locality, error) {
	return s.find(ctx, "localities.list_all", bson.M{})
}

// ListByProvince returns the localities whose province equals province
// exactly, ordered by name.
func (s *Store) ListByProvince(ctx context.Context, province string) ([]models.Locality, error) {
	return s.find(ctx, "localities.list_by_province", bson.M{"province": province})
}

func (s *Store) find(ctx context.Context, op string, filter bson.M) ([]models.Locality, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeerr.Wrap(op, err)
	}
	defer cur.Close(ctx)

	locs := []models.Locality{}
	if err := cur.All(ctx, &locs); err != nil {
		return nil, storeerr.Wrap(op, err)
	}
	return locs, nil
}

// Update rewrites the descriptive fields set in p and refreshes UpdatedAt.
// It returns the stored locality after the update.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.LocalityPatch) (models.Locality, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.Region != nil {
		set["region"] = *p.Region
	}
	if p.Province != nil {
		set["province"] = *p.Province
	}
	if p.City != nil {
		set["city"] = *p.City
	}
	if p.LogoURL != nil {
		set["logo_url"] = *p.LogoURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var loc models.Locality
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&loc)
	if err == mongo.ErrNoDocuments {
		return models.Locality{}, storeerr.NotFound("locality", id.Hex())
	}
	if err != nil {
		return models.Locality{}, storeerr.Wrap("localities.update", err)
	}
	return loc, nil
}

// Delete removes a locality. Reports and profiles that reference it are left
// in place.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeerr.Wrap("localities.delete", err)
	}
	if res.DeletedCount == 0 {
		return storeerr.NotFound("locality", id.Hex())
	}
	return nil
}
