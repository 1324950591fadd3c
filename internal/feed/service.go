package feed

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/models"
	"github.com/nikhilv/blogfeed/internal/validate"
)

// PerPage is the fixed feed page size.
const PerPage = 2

// PostStore defines the interface for post persistence.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	Page(ctx context.Context, page, perPage int) ([]models.Post, error)
}

// UserStore defines the slice of user persistence the feed needs: creator
// lookup plus owned-list maintenance.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	AddPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePost(ctx context.Context, userID, postID primitive.ObjectID) error
}

// ImageCleaner removes a stored image by its public path. Implementations
// are best-effort: they log failures and never report them.
type ImageCleaner interface {
	Clear(path string)
}

// PageCache caches feed pages. A nil result from Get is a miss.
type PageCache interface {
	Get(ctx context.Context, page int) *models.PostPage
	Set(ctx context.Context, page int, pg *models.PostPage)
	Invalidate(ctx context.Context)
}

// Service implements the post lifecycle: paging, CRUD with ownership
// checks, and keeping the creator's owned-post list in step.
type Service struct {
	posts  PostStore
	users  UserStore
	images ImageCleaner
	cache  PageCache
}

func NewService(posts PostStore, users UserStore, images ImageCleaner, cache PageCache) *Service {
	return &Service{posts: posts, users: users, images: images, cache: cache}
}

// List returns one page of posts plus the total count. Pages are 1-based;
// pages past the end come back empty with the true total.
func (s *Service) List(ctx context.Context, page int) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pg := s.cache.Get(ctx, page); pg != nil {
		return pg, nil
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Page(ctx, page, PerPage)
	if err != nil {
		return nil, err
	}

	pg := &models.PostPage{Posts: posts, TotalItems: total}
	s.cache.Set(ctx, page, pg)
	return pg, nil
}

// Get fetches a single post.
func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Create validates the input and persists a new post owned by userID,
// then appends the post id to the creator's owned list. Returns the post
// and the resolved creator.
func (s *Service) Create(ctx context.Context, userID string, input models.PostInput) (*models.Post, *models.Creator, error) {
	if userID == "" {
		return nil, nil, apperr.New(apperr.Unauthenticated, "Not authenticated!")
	}
	if violations := validate.PostInput(input.Title, input.Content); len(violations) > 0 {
		return nil, nil, apperr.Invalid(violations)
	}
	if input.ImageURL == "" {
		return nil, nil, apperr.New(apperr.MissingAttachment, "No image provided.")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, nil, apperr.New(apperr.Unauthenticated, "Invalid user.")
		}
		return nil, nil, err
	}

	post, err := s.posts.Insert(ctx, &models.Post{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		Creator:  user.ID,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.AddPost(ctx, user.ID, post.ID); err != nil {
		return nil, nil, s.inconsistency("create", user.ID, post.ID, err)
	}

	s.cache.Invalidate(ctx)
	return post, &models.Creator{ID: user.ID.Hex(), Name: user.Name}, nil
}

// Update rewrites the mutable fields of a post owned by userID. A changed
// image reference schedules cleanup of the superseded file.
func (s *Service) Update(ctx context.Context, userID, id string, input models.PostInput) (*models.Post, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Not authenticated!")
	}
	if violations := validate.PostInput(input.Title, input.Content); len(violations) > 0 {
		return nil, apperr.Invalid(violations)
	}
	if input.ImageURL == "" {
		return nil, apperr.New(apperr.MissingAttachment, "No file picked.")
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Creator.Hex() != userID {
		return nil, apperr.New(apperr.Unauthorized, "Not authorized!")
	}

	oldImage := post.ImageURL
	post.Title = input.Title
	post.Content = input.Content
	post.ImageURL = input.ImageURL
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if oldImage != input.ImageURL {
		s.images.Clear(oldImage)
	}

	s.cache.Invalidate(ctx)
	return post, nil
}

// Delete removes a post owned by userID, cleans up its image and drops
// the id from the creator's owned list.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperr.New(apperr.Unauthenticated, "Not authenticated!")
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Creator.Hex() != userID {
		return apperr.New(apperr.Unauthorized, "Not authorized!")
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}
	s.images.Clear(post.ImageURL)

	if err := s.users.RemovePost(ctx, post.Creator, post.ID); err != nil {
		return s.inconsistency("delete", post.Creator, post.ID, err)
	}

	s.cache.Invalidate(ctx)
	return nil
}

// inconsistency reports a committed post mutation whose owned-list update
// failed. The incident id ties the surfaced error to the log line so the
// pair can be reconciled later.
func (s *Service) inconsistency(op string, userID, postID primitive.ObjectID, err error) error {
	incident := uuid.NewString()
	log.Printf("consistency fault %s: %s post=%s user=%s: %v", incident, op, postID.Hex(), userID.Hex(), err)
	return apperr.Wrap(apperr.Inconsistency,
		fmt.Sprintf("Post %s succeeded but the owner's post list was not updated (incident %s).", op, incident), err)
}
