package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

const cropsCollection = "crops"

type CropRepository struct {
	col *mongo.Collection
}

func NewCropRepository(db *mongo.Database) *CropRepository {
	return &CropRepository{col: db.Collection(cropsCollection)}
}

type mongoCrop struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Location    string    `bson:"location"`
	Price       float64   `bson:"price"`
	Quantity    float64   `bson:"quantity"`
	Farmer      string    `bson:"farmer"`
	Image       string    `bson:"image,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toMongoCrop(c *domain.Crop) mongoCrop {
	return mongoCrop{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Location:    c.Location,
		Price:       c.Price,
		Quantity:    c.Quantity,
		Farmer:      c.Farmer,
		Image:       c.Image,
		CreatedAt:   c.CreatedAt,
	}
}

func (m mongoCrop) toDomain() domain.Crop {
	return domain.Crop{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Location:    m.Location,
		Price:       m.Price,
		Quantity:    m.Quantity,
		Farmer:      m.Farmer,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

// Create inserts a new crop document.
func (r *CropRepository) Create(ctx context.Context, c *domain.Crop) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoCrop(c)); err != nil {
		return fmt.Errorf("%w: insert crop: %v", domain.ErrStorage, err)
	}
	return nil
}

// FindAll returns every crop ordered by creation time.
func (r *CropRepository) FindAll(ctx context.Context) ([]domain.Crop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: list crops: %v", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []mongoCrop
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode crops: %v", domain.ErrStorage, err)
	}

	crops := make([]domain.Crop, len(docs))
	for i, d := range docs {
		crops[i] = d.toDomain()
	}
	return crops, nil
}

// FindByID retrieves a crop by its id.
func (r *CropRepository) FindByID(ctx context.Context, id string) (*domain.Crop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoCrop
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("%w: find crop: %v", domain.ErrStorage, err)
	}
	c := doc.toDomain()
	return &c, nil
}

// EnsureIndexes creates necessary indexes on the crops collection.
func (r *CropRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "farmer", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
