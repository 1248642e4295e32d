// Package mongo stores customers as documents in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection customers are stored in
const CollectionName = "customers"

// customerDocument is the stored shape. Timestamps are unix microseconds
// because BSON dates keep only milliseconds.
type customerDocument struct {
	ID          string  `bson:"_id"`
	FirstName   string  `bson:"firstName"`
	LastName    string  `bson:"lastName"`
	Email       string  `bson:"email"`
	EmailKey    string  `bson:"emailKey"`
	Phone       string  `bson:"phone"`
	Address     *string `bson:"address,omitempty"`
	DateOfBirth *string `bson:"dateOfBirth,omitempty"`
	Status      string  `bson:"status"`
	CreatedAt   int64   `bson:"createdAt"`
	UpdatedAt   int64   `bson:"updatedAt"`
}

func toDocument(c domain.Customer) customerDocument {
	doc := customerDocument{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		EmailKey:  domain.EmailKey(c.Email),
		Phone:     c.Phone,
		Address:   c.Address,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.UnixMicro(),
		UpdatedAt: c.UpdatedAt.UnixMicro(),
	}
	if c.DateOfBirth != nil {
		s := c.DateOfBirth.String()
		doc.DateOfBirth = &s
	}
	return doc
}

func (d customerDocument) toDomain() (domain.Customer, error) {
	c := domain.Customer{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Status:    domain.CustomerStatus(d.Status),
		CreatedAt: time.UnixMicro(d.CreatedAt).UTC(),
		UpdatedAt: time.UnixMicro(d.UpdatedAt).UTC(),
	}
	if d.DateOfBirth != nil {
		dob, err := domain.ParseDate(*d.DateOfBirth)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", d.ID, err)
		}
		c.DateOfBirth = &dob
	}
	return c, nil
}

// MongoCustomerRepository реализация репозитория клиентов через MongoDB
type MongoCustomerRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *logger.Logger
}

// NewMongoCustomerRepository uses the customers collection of db
func NewMongoCustomerRepository(client *mongo.Client, db string, log *logger.Logger) *MongoCustomerRepository {
	return &MongoCustomerRepository{
		client: client,
		coll:   client.Database(db).Collection(CollectionName),
		log:    log,
	}
}

// Connect opens a client and pings the primary, retrying with backoff
// until connectTimeout passes.
func Connect(ctx context.Context, uri string, connectTimeout time.Duration, log *logger.Logger) (*mongo.Client, error) {
	log.Info("Connecting to MongoDB")

	var client *mongo.Client
	err := repository.RetryConnect(ctx, "mongo", connectTimeout, log, func(ctx context.Context) error {
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return fmt.Errorf("unable to create mongo client: %w", err)
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(context.Background())
			return fmt.Errorf("unable to ping mongo: %w", err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Successfully connected to MongoDB")
	return client, nil
}

// EnsureIndexes creates the unique email index and the listing indexes
func (r *MongoCustomerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "emailKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("customers_email_key"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("customers_status_created_at"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("customers_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create customer indexes: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepository) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if _, err := r.coll.InsertOne(ctx, toDocument(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Customer{}, repository.ErrDuplicate
		}
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	r.log.Debugw("Customer inserted", "customerID", c.ID)
	return c, nil
}

func (r *MongoCustomerRepository) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	doc := toDocument(c)
	set := bson.M{
		"firstName": doc.FirstName,
		"lastName":  doc.LastName,
		"email":     doc.Email,
		"emailKey":  doc.EmailKey,
		"phone":     doc.Phone,
		"status":    doc.Status,
		"updatedAt": doc.UpdatedAt,
	}
	unset := bson.M{}
	if doc.Address != nil {
		set["address"] = *doc.Address
	} else {
		unset["address"] = ""
	}
	if doc.DateOfBirth != nil {
		set["dateOfBirth"] = *doc.DateOfBirth
	} else {
		unset["dateOfBirth"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var updated customerDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": c.ID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Customer{}, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return domain.Customer{}, repository.ErrDuplicate
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	return updated.toDomain()
}

func (r *MongoCustomerRepository) findOne(ctx context.Context, filter bson.M) (domain.Customer, error) {
	var doc customerDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.findOne(ctx, bson.M{"emailKey": domain.EmailKey(email)})
}

func (r *MongoCustomerRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return n > 0, nil
}

func (r *MongoCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *MongoCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"emailKey": domain.EmailKey(email)})
}

func (r *MongoCustomerRepository) ExistsByEmailExcludingID(ctx context.Context, email, id string) (bool, error) {
	return r.exists(ctx, bson.M{"emailKey": domain.EmailKey(email), "_id": bson.M{"$ne": id}})
}

func (r *MongoCustomerRepository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.findPage(ctx, page, bson.M{})
}

func (r *MongoCustomerRepository) FindByStatus(ctx context.Context, status domain.CustomerStatus, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.findPage(ctx, page, bson.M{"status": string(status)})
}

func (r *MongoCustomerRepository) SearchByName(ctx context.Context, term string, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return r.findPage(ctx, page, bson.M{"$or": bson.A{
		bson.M{"firstName": pattern},
		bson.M{"lastName": pattern},
	}})
}

func (r *MongoCustomerRepository) findPage(ctx context.Context, page domain.PageRequest, filter bson.M) (domain.Page[domain.Customer], error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to count customers: %w", err)
	}
	if total == 0 || int64(page.Offset()) >= total {
		return domain.NewPage[domain.Customer](nil, page, total), nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to query customers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []customerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to decode customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.toDomain()
		if err != nil {
			return domain.Page[domain.Customer]{}, err
		}
		customers = append(customers, c)
	}
	return domain.NewPage(customers, page, total), nil
}

func (r *MongoCustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Drop removes the collection with all its indexes
func (r *MongoCustomerRepository) Drop(ctx context.Context) error {
	return r.coll.Drop(ctx)
}
