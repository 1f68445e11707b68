package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangiplatform/models"
)

type fakeSearcher struct {
	multi       []models.MediaItem
	people      []models.PersonSearchResult
	err         error
	multiCalls  int
	personCalls int
	lastQuery   string
}

func (f *fakeSearcher) SearchMulti(_ context.Context, query string, _ int) (*models.Page[models.MediaItem], error) {
	f.multiCalls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &models.Page[models.MediaItem]{Page: 1, Results: f.multi}, nil
}

func (f *fakeSearcher) SearchPerson(_ context.Context, query string, _ int) (*models.Page[models.PersonSearchResult], error) {
	f.personCalls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &models.Page[models.PersonSearchResult]{Page: 1, Results: f.people}, nil
}

type memoryStore struct {
	items map[string]models.SlugResolution
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]models.SlugResolution{}}
}

func (m *memoryStore) Get(s string) (*models.SlugResolution, error) {
	res, ok := m.items[s]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (m *memoryStore) Upsert(res models.SlugResolution) error {
	m.items[res.Slug] = res
	return nil
}

func TestResolvePrefersMatchingKind(t *testing.T) {
	search := &fakeSearcher{multi: []models.MediaItem{
		{ID: 10, MediaType: "movie", Title: "Kış Uykusu"},
		{ID: 20, MediaType: "tv", Name: "Kış Uykusu"},
	}}
	r := NewResolver(search, nil)

	id, kind, err := r.Resolve(context.Background(), "kis-uykusu-dizisi-hangi-platformda")
	require.NoError(t, err)
	assert.Equal(t, int64(20), id)
	assert.Equal(t, models.MediaKindTV, kind)
	assert.Equal(t, "kis uykusu", search.lastQuery)
}

func TestResolveSkipsPeopleForTV(t *testing.T) {
	search := &fakeSearcher{multi: []models.MediaItem{
		{ID: 1, MediaType: "person", Name: "Ezel"},
		{ID: 2, MediaType: "tv", Name: "Ezel"},
	}}
	id, _, err := NewResolver(search, nil).Resolve(context.Background(), "ezel-dizisi-hangi-platformda")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestResolvePicksBestTitleOverFirst(t *testing.T) {
	search := &fakeSearcher{multi: []models.MediaItem{
		{ID: 1, MediaType: "movie", Title: "Bambaşka Bir Film"},
		{ID: 2, MediaType: "movie", Title: "Babam ve Oğlum"},
	}}
	id, _, err := NewResolver(search, nil).Resolve(context.Background(), "babam-ve-oglum-filmi-hangi-platformda")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestResolveFallsBackToFirstResult(t *testing.T) {
	search := &fakeSearcher{multi: []models.MediaItem{
		{ID: 5, MediaType: "movie", Title: "Completely Different"},
		{ID: 6, MediaType: "movie", Title: "Also Unrelated"},
	}}
	id, kind, err := NewResolver(search, nil).Resolve(context.Background(), "vizontele-filmi-hangi-platformda")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, models.MediaKindMovie, kind)
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver(&fakeSearcher{}, nil)
	_, _, err := r.Resolve(context.Background(), "not-a-slug")
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, _, err = r.Resolve(context.Background(), "yok-filmi-hangi-platformda")
	assert.ErrorIs(t, err, ErrNoMatch)

	onlyTV := &fakeSearcher{multi: []models.MediaItem{{ID: 1, MediaType: "tv", Name: "Yok"}}}
	_, _, err = NewResolver(onlyTV, nil).Resolve(context.Background(), "yok-filmi-hangi-platformda")
	assert.ErrorIs(t, err, ErrNoMatch)

	upstream := errors.New("tmdb down")
	_, _, err = NewResolver(&fakeSearcher{err: upstream}, nil).Resolve(context.Background(), "yok-filmi-hangi-platformda")
	assert.ErrorIs(t, err, upstream)
}

func TestResolveUsesStore(t *testing.T) {
	search := &fakeSearcher{multi: []models.MediaItem{{ID: 42, MediaType: "movie", Title: "Eşkıya"}}}
	store := newMemoryStore()
	r := NewResolver(search, store)

	for i := 0; i < 2; i++ {
		id, _, err := r.Resolve(context.Background(), "eskiya-filmi-hangi-platformda")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	}
	assert.Equal(t, 1, search.multiCalls)

	saved := store.items["eskiya-filmi-hangi-platformda"]
	assert.Equal(t, "movie", saved.Kind)
	assert.Equal(t, "Eşkıya", saved.Title)
	assert.False(t, saved.ResolvedAt.IsZero())
}

func TestResolvePerson(t *testing.T) {
	search := &fakeSearcher{people: []models.PersonSearchResult{
		{ID: 1, Name: "Cem Yılmaz Fan"},
		{ID: 2, Name: "Cem Yılmaz"},
	}}
	store := newMemoryStore()
	r := NewResolver(search, store)

	id, err := r.ResolvePerson(context.Background(), "cem-yilmaz-filmleri-dizileri")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	id, err = r.ResolvePerson(context.Background(), "cem-yilmaz-filmleri-dizileri")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, 1, search.personCalls)
}

func TestResolvePersonNoResults(t *testing.T) {
	_, err := NewResolver(&fakeSearcher{}, nil).ResolvePerson(context.Background(), "kimse-filmleri-dizileri")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestBestMatchSimilarity(t *testing.T) {
	idx, ok := bestMatch("gorevimiz gizli", []string{"Tamamen Başka", "Görevimiz Gizli!"})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = bestMatch("yahsi bati", []string{"Nothing Alike", "Yahşi Batı 2"})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = bestMatch("zzz", []string{"aaa", "bbb"})
	assert.False(t, ok)
	assert.Equal(t, 0, idx)
}

func TestBestMatchPrecedence(t *testing.T) {
	// exact beats an earlier containment
	idx, ok := bestMatch("kurtlar vadisi", []string{"Kurtlar Vadisi Pusu", "Kurtlar Vadisi"})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	// containment beats an earlier near-identical title
	idx, ok = bestMatch("kurtlar vadisi", []string{"Kurtlar Vadisa", "Kurtlar Vadisi Pusu"})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	// among similar titles the closest wins, not the first
	idx, ok = bestMatch("babam ve oglum", []string{"Babam ve Oğlan", "Babam ve Oğlux"})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}
