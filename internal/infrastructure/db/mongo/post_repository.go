package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	AuthorID    primitive.ObjectID `bson:"author"`
	Tags        []string           `bson:"tags,omitempty"`
	Status      string             `bson:"status"`
	Published   bool               `bson:"published"`
	PublishedAt *time.Time         `bson:"published_at,omitempty"`
	Views       int64              `bson:"views"`
	Likes       []string           `bson:"likes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Content:     d.Content,
		AuthorID:    d.AuthorID.Hex(),
		Tags:        d.Tags,
		Status:      domain.PostStatus(d.Status),
		Published:   d.Published,
		PublishedAt: d.PublishedAt,
		Views:       d.Views,
		Likes:       d.Likes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	author, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := postDoc{
		Title:       post.Title,
		Content:     post.Content,
		AuthorID:    author,
		Tags:        post.Tags,
		Status:      string(post.Status),
		Published:   post.Published,
		PublishedAt: post.PublishedAt,
		Views:       post.Views,
		Likes:       post.Likes,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":        post.Title,
		"content":      post.Content,
		"tags":         post.Tags,
		"status":       string(post.Status),
		"published":    post.Published,
		"published_at": post.PublishedAt,
		"likes":        post.Likes,
		"updated_at":   post.UpdatedAt,
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// List returns a page of posts, newest first, honouring the optional
// filters. Search matches title/content/tags case-insensitively.
func (r *PostRepository) List(ctx context.Context, input ports.ListPostsInput) ([]domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if input.Status != "" {
		filter["status"] = input.Status
	}
	if input.AuthorID != "" {
		author, err := primitive.ObjectIDFromHex(input.AuthorID)
		if err != nil {
			return nil, 0, nil
		}
		filter["author"] = author
	}
	if input.Tag != "" {
		filter["tags"] = input.Tag
	}
	if input.Search != "" {
		re := primitive.Regex{Pattern: input.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
			bson.M{"tags": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((input.Page - 1) * input.Limit)).
		SetLimit(int64(input.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []domain.Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, total, nil
}

// IncrementViews bumps the view counter atomically.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the query indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
