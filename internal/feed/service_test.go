package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/models"
)

type mockPostStore struct {
	posts map[string]*models.Post
	order []primitive.ObjectID
}

func newMockPostStore() *mockPostStore {
	return &mockPostStore{posts: make(map[string]*models.Post)}
}

func (m *mockPostStore) Insert(_ context.Context, post *models.Post) (*models.Post, error) {
	post.ID = primitive.NewObjectID()
	stored := *post
	m.posts[post.ID.Hex()] = &stored
	m.order = append(m.order, post.ID)
	return post, nil
}

func (m *mockPostStore) GetByID(_ context.Context, id string) (*models.Post, error) {
	stored, ok := m.posts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Could not find post.")
	}
	copied := *stored
	return &copied, nil
}

func (m *mockPostStore) Update(_ context.Context, post *models.Post) error {
	stored, ok := m.posts[post.ID.Hex()]
	if !ok {
		return apperr.New(apperr.NotFound, "Could not find post.")
	}
	// creator is immutable at the store layer
	stored.Title = post.Title
	stored.Content = post.Content
	stored.ImageURL = post.ImageURL
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (m *mockPostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.posts[id.Hex()]; !ok {
		return apperr.New(apperr.NotFound, "Could not find post.")
	}
	delete(m.posts, id.Hex())
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockPostStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.order)), nil
}

func (m *mockPostStore) Page(_ context.Context, page, perPage int) ([]models.Post, error) {
	start := (page - 1) * perPage
	if start >= len(m.order) {
		return []models.Post{}, nil
	}
	end := start + perPage
	if end > len(m.order) {
		end = len(m.order)
	}
	out := make([]models.Post, 0, end-start)
	for _, id := range m.order[start:end] {
		out = append(out, *m.posts[id.Hex()])
	}
	return out, nil
}

type mockUserStore struct {
	users      map[string]*models.User
	failAdd    bool
	failRemove bool
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*models.User)}
}

func (m *mockUserStore) addUser(name string) *models.User {
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: name + "@b.com",
		Name:  name,
		Posts: []primitive.ObjectID{},
	}
	m.users[user.ID.Hex()] = user
	return user
}

func (m *mockUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperr.New(apperr.NotFound, "User not found.")
}

func (m *mockUserStore) AddPost(_ context.Context, userID, postID primitive.ObjectID) error {
	if m.failAdd {
		return apperr.New(apperr.StoreError, "Linking post to user failed.")
	}
	u, ok := m.users[userID.Hex()]
	if !ok {
		return apperr.New(apperr.NotFound, "User not found.")
	}
	u.Posts = append(u.Posts, postID)
	return nil
}

func (m *mockUserStore) RemovePost(_ context.Context, userID, postID primitive.ObjectID) error {
	if m.failRemove {
		return apperr.New(apperr.StoreError, "Unlinking post from user failed.")
	}
	u, ok := m.users[userID.Hex()]
	if !ok {
		return apperr.New(apperr.NotFound, "User not found.")
	}
	for i, id := range u.Posts {
		if id == postID {
			u.Posts = append(u.Posts[:i], u.Posts[i+1:]...)
			break
		}
	}
	return nil
}

type fakeCleaner struct {
	cleared []string
}

func (f *fakeCleaner) Clear(path string) { f.cleared = append(f.cleared, path) }

type fakeCache struct {
	pages         map[int]*models.PostPage
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: make(map[int]*models.PostPage)}
}

func (f *fakeCache) Get(_ context.Context, page int) *models.PostPage { return f.pages[page] }
func (f *fakeCache) Set(_ context.Context, page int, pg *models.PostPage) {
	f.pages[page] = pg
}
func (f *fakeCache) Invalidate(_ context.Context) {
	f.pages = make(map[int]*models.PostPage)
	f.invalidations++
}

type fixture struct {
	svc     *Service
	posts   *mockPostStore
	users   *mockUserStore
	cleaner *fakeCleaner
	cache   *fakeCache
	owner   *models.User
}

func newFixture() *fixture {
	posts := newMockPostStore()
	users := newMockUserStore()
	cleaner := &fakeCleaner{}
	cache := newFakeCache()
	return &fixture{
		svc:     NewService(posts, users, cleaner, cache),
		posts:   posts,
		users:   users,
		cleaner: cleaner,
		cache:   cache,
		owner:   users.addUser("A"),
	}
}

func (f *fixture) createPost(t *testing.T, title string) *models.Post {
	t.Helper()
	post, _, err := f.svc.Create(context.Background(), f.owner.ID.Hex(), models.PostInput{
		Title:    title,
		Content:  "Some content here",
		ImageURL: "images/pic.png",
	})
	require.NoError(t, err)
	return post
}

func TestCreatePost(t *testing.T) {
	f := newFixture()

	post, creator, err := f.svc.Create(context.Background(), f.owner.ID.Hex(), models.PostInput{
		Title:    "Hello World",
		Content:  "Some content here",
		ImageURL: "images/pic.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, f.owner.ID, post.Creator)
	assert.Equal(t, f.owner.ID.Hex(), creator.ID)
	assert.Equal(t, "A", creator.Name)

	// owned list gained exactly this post
	require.Len(t, f.owner.Posts, 1)
	assert.Equal(t, post.ID, f.owner.Posts[0])
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestCreatePostUnauthenticated(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Create(context.Background(), "", models.PostInput{
		Title: "Hello World", Content: "Some content here", ImageURL: "images/pic.png",
	})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
	assert.Empty(t, f.posts.posts)
}

func TestCreatePostInvalidInput(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Create(context.Background(), f.owner.ID.Hex(), models.PostInput{
		Title: "Hi", Content: "  no  ", ImageURL: "images/pic.png",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ValidationFailed))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Violations, 2)
	assert.Empty(t, f.posts.posts, "no write on invalid input")
	assert.Empty(t, f.owner.Posts)
}

func TestCreatePostMissingImage(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Create(context.Background(), f.owner.ID.Hex(), models.PostInput{
		Title: "Hello World", Content: "Some content here",
	})
	assert.True(t, apperr.Is(err, apperr.MissingAttachment))
	assert.Empty(t, f.posts.posts)
}

func TestCreatePostUnknownUser(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Create(context.Background(), primitive.NewObjectID().Hex(), models.PostInput{
		Title: "Hello World", Content: "Some content here", ImageURL: "images/pic.png",
	})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestCreatePostLinkFailureSurfacesInconsistency(t *testing.T) {
	f := newFixture()
	f.users.failAdd = true

	_, _, err := f.svc.Create(context.Background(), f.owner.ID.Hex(), models.PostInput{
		Title: "Hello World", Content: "Some content here", ImageURL: "images/pic.png",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Inconsistency))
	// the post write itself was committed before the fault
	assert.Len(t, f.posts.posts, 1)
}

func TestGetPost(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")

	got, err := f.svc.Get(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, post.Creator, got.Creator)
}

func TestGetPostNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestListPagination(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		f.createPost(t, fmt.Sprintf("Hello World %d", i))
	}

	pg, err := f.svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, pg.Posts, PerPage)
	assert.EqualValues(t, 3, pg.TotalItems)
	assert.Equal(t, "Hello World 0", pg.Posts[0].Title, "creation order")

	pg, err = f.svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, pg.Posts, 1)
}

func TestListPastLastPage(t *testing.T) {
	f := newFixture()
	f.createPost(t, "Hello World")

	pg, err := f.svc.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, pg.Posts)
	assert.EqualValues(t, 1, pg.TotalItems, "total survives an out-of-range page")
}

func TestListUsesCache(t *testing.T) {
	f := newFixture()
	f.createPost(t, "Hello World")

	pg, err := f.svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, f.cache.pages[1], "page cached after a miss")

	cached, err := f.svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, pg, cached)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")

	updated, err := f.svc.Update(context.Background(), f.owner.ID.Hex(), post.ID.Hex(), models.PostInput{
		Title: "Updated Title", Content: "Updated content", ImageURL: "images/pic.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, post.Creator, updated.Creator, "creator immutable across updates")
	assert.Empty(t, f.cleaner.cleared, "unchanged image is not cleaned up")
}

func TestUpdatePostReplacesImage(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")

	_, err := f.svc.Update(context.Background(), f.owner.ID.Hex(), post.ID.Hex(), models.PostInput{
		Title: "Hello World", Content: "Some content here", ImageURL: "images/new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"images/pic.png"}, f.cleaner.cleared)
}

func TestUpdatePostByNonCreator(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")
	other := f.users.addUser("B")

	_, err := f.svc.Update(context.Background(), other.ID.Hex(), post.ID.Hex(), models.PostInput{
		Title: "Hijacked Title", Content: "Hijacked content", ImageURL: "images/pic.png",
	})
	assert.True(t, apperr.Is(err, apperr.Unauthorized))

	stored, err := f.svc.Get(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Hello World", stored.Title, "store unchanged")
}

func TestUpdatePostNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), f.owner.ID.Hex(), primitive.NewObjectID().Hex(), models.PostInput{
		Title: "Hello World", Content: "Some content here", ImageURL: "images/pic.png",
	})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")

	require.NoError(t, f.svc.Delete(context.Background(), f.owner.ID.Hex(), post.ID.Hex()))

	_, err := f.svc.Get(context.Background(), post.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Empty(t, f.owner.Posts, "owned list shrinks with the post")
	assert.Equal(t, []string{"images/pic.png"}, f.cleaner.cleared)
}

func TestDeletePostByNonCreator(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")
	other := f.users.addUser("B")

	err := f.svc.Delete(context.Background(), other.ID.Hex(), post.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
	assert.Len(t, f.posts.posts, 1, "store unchanged")
	assert.Len(t, f.owner.Posts, 1)
}

func TestDeletePostUnlinkFailureSurfacesInconsistency(t *testing.T) {
	f := newFixture()
	post := f.createPost(t, "Hello World")
	f.users.failRemove = true

	err := f.svc.Delete(context.Background(), f.owner.ID.Hex(), post.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Inconsistency))
	assert.Empty(t, f.posts.posts, "the delete itself was committed")
}

func TestOwnedListTracksPosts(t *testing.T) {
	f := newFixture()

	first := f.createPost(t, "First post here")
	second := f.createPost(t, "Second post here")
	third := f.createPost(t, "Third post here")
	require.NoError(t, f.svc.Delete(context.Background(), f.owner.ID.Hex(), second.ID.Hex()))

	assert.Equal(t, []primitive.ObjectID{first.ID, third.ID}, f.owner.Posts)
}
