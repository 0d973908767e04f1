package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waterRecord = `{
  "PC_Compounds": [{
    "atoms": {"aid": [1, 2, 3], "element": [8, 1, 1]},
    "bonds": {"aid1": [1, 1], "aid2": [2, 3], "order": [1, 1]},
    "coords": [{
      "aid": [1, 2, 3],
      "conformers": [{
        "x": [0, 0.2774, 0.6068],
        "y": [0, 0.8929, -0.2383],
        "z": [0, 0.2544, -0.7169]
      }]
    }]
  }]
}`

type fakePubChem struct {
	hits     atomic.Int32
	noRecord bool
	failures atomic.Int32 // 503s to return before answering

	// 503s for the 3D record and synonym endpoints only
	recordFailures  atomic.Int32
	synonymFailures atomic.Int32
}

func takeFailure(n *atomic.Int32) bool {
	if n.Load() > 0 {
		n.Add(-1)
		return true
	}
	return false
}

func (f *fakePubChem) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	if takeFailure(&f.failures) ||
		(strings.HasSuffix(r.URL.Path, "/record/JSON") && takeFailure(&f.recordFailures)) ||
		(strings.HasSuffix(r.URL.Path, "/synonyms/JSON") && takeFailure(&f.synonymFailures)) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
		return
	}
	switch {
	case r.URL.Path == "/compound/name/water/cids/JSON":
		fmt.Fprint(w, `{"IdentifierList": {"CID": [962, 1]}}`)
	case r.URL.Path == "/compound/text/dihydrogen oxide/cids/JSON":
		fmt.Fprint(w, `{"IdentifierList": {"CID": [962]}}`)
	case r.URL.Path == "/compound/cid/962/property/Title,MolecularFormula,MolecularWeight,IUPACName/JSON":
		fmt.Fprint(w, `{"PropertyTable": {"Properties": [{"CID": 962, "Title": "Water", "MolecularFormula": "H2O", "MolecularWeight": "18.015", "IUPACName": "oxidane"}]}}`)
	case r.URL.Path == "/compound/cid/962/synonyms/JSON":
		fmt.Fprint(w, `{"InformationList": {"Information": [{"CID": 962, "Synonym": ["water", "dihydrogen oxide", "H2O", "aqua", "ice", "steam"]}]}}`)
	case r.URL.Path == "/compound/cid/962/record/JSON":
		if f.noRecord || r.URL.Query().Get("record_type") != "3d" {
			http.Error(w, `{"Fault": {"Code": "PUGREST.NotFound"}}`, http.StatusNotFound)
			return
		}
		fmt.Fprint(w, waterRecord)
	default:
		http.Error(w, `{"Fault": {"Code": "PUGREST.NotFound"}}`, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, f *fakePubChem) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:       srv.URL + "/",
		Timeout:       2 * time.Second,
		Retries:       2,
		RetryInterval: time.Millisecond,
		CacheTTL:      time.Minute,
	})
}

func TestSearchReturnsStructure(t *testing.T) {
	c := newTestClient(t, &fakePubChem{})

	r, err := c.Search(context.Background(), " water ")
	require.NoError(t, err)

	assert.Equal(t, "Water", r.Name)
	assert.Equal(t, int64(962), r.CID)
	assert.Equal(t, "H2O", r.MolecularFormula)
	assert.InDelta(t, 18.015, float64(r.MolecularWeight), 1e-9)
	assert.Equal(t, "oxidane", r.Metadata["iupac_name"])
	assert.Len(t, r.Metadata["synonyms"], maxSynonyms)

	require.NotNil(t, r.Structure)
	s := r.Structure
	require.Len(t, s.Atoms, 3)
	assert.Equal(t, "O", s.Atoms[0].Element)
	assert.Equal(t, "H", s.Atoms[1].Element)
	assert.Equal(t, 1, s.Atoms[0].ID)
	assert.InDelta(t, 0.8929, s.Atoms[1].Position[1], 1e-9)
	require.Len(t, s.Bonds, 2)
	assert.Equal(t, 0, s.Bonds[1].Atom1)
	assert.Equal(t, 2, s.Bonds[1].Atom2)
	assert.NoError(t, s.Validate())
}

func TestSearchFallsBackToTextLookup(t *testing.T) {
	c := newTestClient(t, &fakePubChem{})
	r, err := c.Search(context.Background(), "dihydrogen oxide")
	require.NoError(t, err)
	assert.Equal(t, int64(962), r.CID)
}

func TestSearchWithoutRecord(t *testing.T) {
	c := newTestClient(t, &fakePubChem{noRecord: true})
	r, err := c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Nil(t, r.Structure)
	assert.Equal(t, "Water", r.Name)
}

func TestSearchDoesNotCacheUnavailableRecord(t *testing.T) {
	f := &fakePubChem{}
	f.recordFailures.Store(3) // every attempt of the first search
	c := newTestClient(t, f)

	r, err := c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Nil(t, r.Structure)

	r, err = c.Search(context.Background(), "water")
	require.NoError(t, err)
	require.NotNil(t, r.Structure, "a recovered service must not be hidden by the cache")
	assert.Len(t, r.Structure.Atoms, 3)

	hits := f.hits.Load()
	_, err = c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Equal(t, hits, f.hits.Load(), "complete result should be cached")
}

func TestSearchDoesNotCacheUnavailableSynonyms(t *testing.T) {
	f := &fakePubChem{}
	f.synonymFailures.Store(3)
	c := newTestClient(t, f)

	r, err := c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.NotContains(t, r.Metadata, "synonyms")
	assert.NotNil(t, r.Structure)

	r, err = c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Len(t, r.Metadata["synonyms"], maxSynonyms)
}

func TestSearchCachesMissingRecord(t *testing.T) {
	f := &fakePubChem{noRecord: true}
	c := newTestClient(t, f)

	_, err := c.Search(context.Background(), "water")
	require.NoError(t, err)
	hits := f.hits.Load()
	_, err = c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Equal(t, hits, f.hits.Load())
}

func TestSearchNotFound(t *testing.T) {
	c := newTestClient(t, &fakePubChem{})
	_, err := c.Search(context.Background(), "unobtainium")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchRetriesServerErrors(t *testing.T) {
	f := &fakePubChem{}
	f.failures.Store(2)
	c := newTestClient(t, f)

	r, err := c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Equal(t, int64(962), r.CID)
}

func TestSearchUnavailable(t *testing.T) {
	f := &fakePubChem{}
	f.failures.Store(100)
	c := newTestClient(t, f)

	_, err := c.Search(context.Background(), "water")
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	// One attempt plus two retries.
	assert.Equal(t, int32(3), f.hits.Load())
}

func TestSearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base, Retries: 0, Timeout: time.Second})
	_, err := c.Search(context.Background(), "water")
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestSearchCache(t *testing.T) {
	f := &fakePubChem{}
	c := newTestClient(t, f)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Search(context.Background(), "water")
	require.NoError(t, err)
	first := f.hits.Load()

	_, err = c.Search(context.Background(), "WATER")
	require.NoError(t, err)
	assert.Equal(t, first, f.hits.Load(), "second search should be served from cache")

	now = now.Add(2 * time.Minute)
	_, err = c.Search(context.Background(), "water")
	require.NoError(t, err)
	assert.Greater(t, f.hits.Load(), first, "expired entry should be refetched")
}

func TestSearchCancelled(t *testing.T) {
	c := newTestClient(t, &fakePubChem{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "water")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRecordConversionErrors(t *testing.T) {
	var empty compoundRecord
	_, err := empty.structure()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no compounds"))

	var flat compoundRecord
	require.NoError(t, json.Unmarshal([]byte(`{"PC_Compounds": [{"atoms": {"aid": [1], "element": [6]}}]}`), &flat))
	_, err = flat.structure()
	assert.ErrorIs(t, err, errNoConformer)

	var broken compoundRecord
	require.NoError(t, json.Unmarshal([]byte(`{"PC_Compounds": [{"atoms": {"aid": [1, 2], "element": [6]}}]}`), &broken))
	_, err = broken.structure()
	assert.Error(t, err)
}

func TestRecordSkipsDanglingBonds(t *testing.T) {
	var rec compoundRecord
	require.NoError(t, json.Unmarshal([]byte(waterRecord), &rec))
	rec.PCCompounds[0].Bonds.AID1 = append(rec.PCCompounds[0].Bonds.AID1, 1)
	rec.PCCompounds[0].Bonds.AID2 = append(rec.PCCompounds[0].Bonds.AID2, 9)

	s, err := rec.structure()
	require.NoError(t, err)
	assert.Len(t, s.Bonds, 2)
	assert.Equal(t, "pubchem", s.Metadata["source"])
}
