package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
	"github.com/cafehopper/cafe-hopper/server/internal/services"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
)

// stubProvider serves fixed candidates and details.
type stubProvider struct {
	candidates []places.Candidate
	details    map[string]*places.Detail
}

func (s *stubProvider) TextSearch(ctx context.Context, p places.SearchParams) ([]places.Candidate, error) {
	return s.candidates, nil
}

func (s *stubProvider) NearbySearch(ctx context.Context, loc model.Geolocation, radiusMeters int) ([]places.Candidate, error) {
	return s.candidates, nil
}

func (s *stubProvider) Details(ctx context.Context, placeID string) (*places.Detail, error) {
	d, ok := s.details[placeID]
	if !ok {
		return nil, fmt.Errorf("no detail fixture for %s", placeID)
	}
	cp := *d
	return &cp, nil
}

func (s *stubProvider) Photo(ctx context.Context, photoReference string) ([]byte, error) {
	return []byte{0xff, 0xd8, 0xff}, nil
}

// stubStore is a map-backed store.Store.
type stubStore struct {
	cafes map[string]*model.Cafe
}

func newStubStore(seed ...*model.Cafe) *stubStore {
	s := &stubStore{cafes: map[string]*model.Cafe{}}
	for _, c := range seed {
		cp := *c
		s.cafes[c.ID] = &cp
	}
	return s
}

func (s *stubStore) Cafes() store.Cafes     { return s }
func (s *stubStore) Reviews() store.Reviews { return s }

func (s *stubStore) Query(ctx context.Context, q store.CafeQuery) ([]*model.Cafe, error) {
	out := []*model.Cafe{}
	for _, id := range q.IDs {
		if c, ok := s.cafes[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stubStore) Insert(ctx context.Context, cafes []*model.Cafe) error {
	for _, c := range cafes {
		if _, ok := s.cafes[c.ID]; !ok {
			cp := *c
			s.cafes[c.ID] = &cp
		}
	}
	return nil
}

func (s *stubStore) Get(ctx context.Context, id string) (*model.Cafe, error) {
	c, ok := s.cafes[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubStore) UpdateAggregates(ctx context.Context, c *model.Cafe) error {
	if _, ok := s.cafes[c.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *c
	s.cafes[c.ID] = &cp
	return nil
}

func (s *stubStore) Create(ctx context.Context, r *model.Review) (*model.Review, error) {
	return r, nil
}

func newTestServer(t *testing.T, st store.Store, p places.Provider) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	search := services.NewSearchService(st, p, log)
	review := services.NewReviewService(st, nil, log)
	srv := httptest.NewServer(NewRouter(search, review, p))
	t.Cleanup(srv.Close)
	return srv
}

func postSearch(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/cafes/search", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestSearchEndpoint_Success(t *testing.T) {
	p := &stubProvider{
		candidates: []places.Candidate{{PlaceID: "p1", Name: "Verve"}},
		details: map[string]*places.Detail{
			"p1": {Name: "Verve", FormattedAddress: "1540 Pacific Ave"},
		},
	}
	srv := newTestServer(t, newStubStore(), p)

	resp := postSearch(t, srv, `{"query":"coffee"}`)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.SearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Cafes, 1)
	assert.Equal(t, "p1", body.Cafes[0].ID)
	assert.Equal(t, "Verve", body.Cafes[0].Name)
	assert.Empty(t, body.Error)
}

func TestSearchEndpoint_EmptyResultIs200(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	resp := postSearch(t, srv, `{"query":"nothing here"}`)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.SearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Cafes)
	assert.Empty(t, body.Cafes)
}

func TestSearchEndpoint_ValidationErrorsAre400(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	cases := []string{
		`{}`,
		`{"query":"cafe","sortBy":"popularity"}`,
		`{"query":"cafe","customTime":{"time":"25:00"}}`,
		`{"query":"cafe","rating":9}`,
	}
	for _, payload := range cases {
		resp := postSearch(t, srv, payload)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "payload: %s", payload)
		assert.NotEmpty(t, body["error"], "payload: %s", payload)
	}
}

func TestSearchEndpoint_PartialGeolocationIs400(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	resp := postSearch(t, srv, `{"query":"cafe","geolocation":{"lat":36.97}}`)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint_MalformedJSONIs400(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	resp := postSearch(t, srv, `{"query":`)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint_IntegrityViolationIs400(t *testing.T) {
	p := &stubProvider{candidates: []places.Candidate{{PlaceID: "", Name: "broken"}}}
	srv := newTestServer(t, newStubStore(), p)

	resp := postSearch(t, srv, `{"query":"cafe"}`)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPingEndpoint_Success(t *testing.T) {
	st := newStubStore(&model.Cafe{ID: "p1", Name: "Verve", Rating: 4, NumReviews: 1})
	srv := newTestServer(t, st, &stubProvider{})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/cafes/ping",
		bytes.NewBufferString(`{"cafeId":"p1","rating":5}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cafe model.Cafe
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cafe))
	assert.Equal(t, 2, cafe.NumReviews)
	assert.InDelta(t, 4.5, cafe.Rating, 1e-9)
}

func TestPingEndpoint_UnknownCafeIs404(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/cafes/ping",
		bytes.NewBufferString(`{"cafeId":"ghost","rating":5}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPingEndpoint_ValidationIs400(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/cafes/ping",
		bytes.NewBufferString(`{"rating":5}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNearbyEndpoint(t *testing.T) {
	p := &stubProvider{candidates: []places.Candidate{{PlaceID: "p1", Name: "Verve"}}}
	srv := newTestServer(t, newStubStore(), p)

	resp, err := http.Get(srv.URL + "/cafes/nearby?lat=36.97&lng=-122.03&radius=500")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []places.Candidate `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "p1", body.Results[0].PlaceID)
}

func TestNearbyEndpoint_MissingCoordinatesIs400(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	resp, err := http.Get(srv.URL + "/cafes/nearby?lat=36.97")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPhotoEndpoint(t *testing.T) {
	srv := newTestServer(t, newStubStore(), &stubProvider{})

	resp, err := http.Get(srv.URL + "/cafes/photo/someref")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}
