package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDefaultDatabase = "auth"
	mongoConnectTimeout  = 10 * time.Second
	countersCollection   = "counters"
	sessionIndexName     = "users_session_id_key"
	emailIndexName       = "users_email_key"
)

// mongoUserRepository stores users in a MongoDB collection. Email and
// session id uniqueness are unique indexes; the session index is partial so
// any number of users may have no session.
type mongoUserRepository struct {
	client   *mongo.Client
	users    *mongo.Collection
	counters *mongo.Collection
	logger   *logger.Logger
}

type mongoUser struct {
	UserID         int64     `bson:"_id"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	SessionID      *string   `bson:"session_id,omitempty"`
	ResetToken     *string   `bson:"reset_token,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
}

// NewMongoUserRepository connects to uri, pings the server and makes sure the
// unique indexes exist. The database is taken from the URI path, "auth" when
// absent.
func NewMongoUserRepository(ctx context.Context, uri string, log *logger.Logger) (UserRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Err(err).Str("func", "NewMongoUserRepository").Msg("error connecting mongo")
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		log.Err(err).Str("func", "NewMongoUserRepository").Msg("error connecting mongo (ping)")
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(mongoDatabaseName(uri))
	repo := &mongoUserRepository{
		client:   client,
		users:    db.Collection(models.User{}.TableName()),
		counters: db.Collection(countersCollection),
		logger:   log,
	}

	if err := repo.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, err
	}

	log.Info().Str("func", "NewMongoUserRepository").Str("database", db.Name()).Msg("connected to mongo successfully")
	return repo, nil
}

func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return mongoDefaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return mongoDefaultDatabase
}

func (r *mongoUserRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		},
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(sessionIndexName).
				SetPartialFilterExpression(bson.M{"session_id": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": models.User{}.TableName()},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *mongoUserRepository) AddUser(ctx context.Context, email, hashedPassword string) (models.User, error) {
	log := logger.FromContext(ctx)

	id, err := r.nextID(ctx)
	if err != nil {
		log.Err(err).Str("func", "*mongoUserRepository.AddUser").Msg("error allocating user id")
		return models.User{}, err
	}

	doc := mongoUser{
		UserID:         id,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		log.Err(err).Str("func", "*mongoUserRepository.AddUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return doc.toModel(), nil
}

func (r *mongoUserRepository) FindUser(ctx context.Context, criteria Criteria) (models.User, error) {
	if !criteria.Valid() {
		return models.User{}, ErrInvalidCriteria
	}
	if criteria.matchesNothing() {
		return models.User{}, ErrUserNotFound
	}

	field := criteria.Column()
	if criteria.kind == criteriaID {
		field = "_id"
	}

	var doc mongoUser
	err := r.users.FindOne(ctx, bson.M{field: criteria.Value()}).Decode(&doc)
	switch {
	case err == nil:
		return doc.toModel(), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, ErrUserNotFound
	default:
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.FindUser").Str("criteria", criteria.String()).Msg("error finding user")
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
}

// UpdateUser issues one update document; MongoDB applies it atomically to
// the single matched document.
func (r *mongoUserRepository) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error {
	if update.IsEmpty() {
		return ErrInvalidField
	}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, mongoUpdateDocument(update))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), sessionIndexName) {
				return ErrDuplicateSession
			}
			return ErrDuplicateEmail
		}
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.UpdateUser").Int64("user_id", id).Msg("error updating user")
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

func (r *mongoUserRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *mongoUserRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// mongoUpdateDocument splits update into $set and $unset; cleared tokens are
// removed so the partial session index ignores them.
func mongoUpdateDocument(update models.UserUpdate) bson.M {
	set := bson.M{}
	unset := bson.M{}

	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.HashedPassword != nil {
		set["hashed_password"] = *update.HashedPassword
	}
	if update.SessionID != nil {
		if update.SessionID.Valid {
			set["session_id"] = update.SessionID.String
		} else {
			unset["session_id"] = ""
		}
	}
	if update.ResetToken != nil {
		if update.ResetToken.Valid {
			set["reset_token"] = update.ResetToken.String
		} else {
			unset["reset_token"] = ""
		}
	}

	doc := bson.M{}
	if len(set) > 0 {
		doc["$set"] = set
	}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}
	return doc
}

func (d mongoUser) toModel() models.User {
	user := models.User{
		UserID:         d.UserID,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		CreatedAt:      d.CreatedAt,
	}
	if d.SessionID != nil {
		user.SessionID.String, user.SessionID.Valid = *d.SessionID, true
	}
	if d.ResetToken != nil {
		user.ResetToken.String, user.ResetToken.Valid = *d.ResetToken, true
	}
	return user
}
