package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapminder/core/chart"
	"gapminder/core/dataset"
	"gapminder/core/source"
	"gapminder/core/types"
	"gapminder/core/view"
)

func table(metric types.Metric, rows ...[]string) *types.RawTable {
	return &types.RawTable{
		Metric:    metric,
		KeyColumn: "country",
		Columns:   []string{"country", "1990", "2000"},
		Rows:      rows,
	}
}

func newTestServer(t *testing.T, src source.TableSource) *Server {
	t.Helper()
	handle := dataset.NewHandle(dataset.NewBuilder(src, nil))
	return NewServer("test", handle, chart.NewRenderer(chart.Options{Width: 320, Height: 240}), nil)
}

func sampleServer(t *testing.T) *Server {
	return newTestServer(t, source.StaticSource{
		types.MetricLifeExpectancy: table(types.MetricLifeExpectancy,
			[]string{"Chad", "46.2", "48.5"},
			[]string{"China", "69.1", "71.7"},
		),
		types.MetricPopulation: table(types.MetricPopulation,
			[]string{"Chad", "5.9M", "8.3M"},
			[]string{"China", "1.18B", "1.29B"},
		),
		types.MetricGNIPerCapita: table(types.MetricGNIPerCapita,
			[]string{"Chad", "750", "1.1k"},
			[]string{"China", "", "2.9k"},
		),
	})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthDoesNotBuild(t *testing.T) {
	s := sampleServer(t)

	rec := get(t, s, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["built"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestControls(t *testing.T) {
	rec := get(t, sampleServer(t), "/api/controls")
	require.Equal(t, http.StatusOK, rec.Code)

	var controls view.Controls
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &controls))
	assert.Equal(t, view.Title, controls.Title)
	assert.Equal(t, 1990, controls.MinYear)
	assert.Equal(t, 2000, controls.MaxYear)
	assert.Equal(t, 2000, controls.DefaultYear)
	assert.Equal(t, []string{"Chad", "China"}, controls.Countries)
}

func TestRecords(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCount int
	}{
		{"default year both countries", "/api/records?country=Chad&country=China", http.StatusOK, 2},
		{"comma is part of the name", "/api/records?year=1990&country=Chad,China", http.StatusOK, 0},
		{"one country", "/api/records?year=1990&country=Chad", http.StatusOK, 1},
		{"no countries", "/api/records?year=1990", http.StatusOK, 0},
		{"unknown country", "/api/records?country=Peru", http.StatusOK, 0},
		{"year out of range", "/api/records?year=1850&country=Chad", http.StatusBadRequest, 0},
		{"malformed year", "/api/records?year=abc", http.StatusBadRequest, 0},
	}

	s := sampleServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "INPUT_ERROR", body.Error.Code)
				return
			}

			var body RecordsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCount, body.Count)
			assert.Len(t, body.Records, tt.wantCount)
		})
	}
}

func TestRecordsMissingValueIsNull(t *testing.T) {
	rec := get(t, sampleServer(t), "/api/records?year=1990&country=China")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Records, 1)
	assert.Nil(t, body.Records[0]["gni_per_capita"])
	assert.Equal(t, 69.1, body.Records[0]["life_expectancy"])
}

func TestChart(t *testing.T) {
	s := sampleServer(t)

	rec := get(t, s, "/api/chart.png?year=2000&country=Chad&country=China")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rec.Body.String()[:4])

	rec = get(t, s, "/api/chart.svg?year=2000&country=Chad")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = get(t, s, "/api/chart.png?year=2000")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = get(t, s, "/api/chart.gif")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDatasetBuildFailure(t *testing.T) {
	s := newTestServer(t, source.StaticSource{})

	rec := get(t, s, "/api/controls")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestDatasetInfo(t *testing.T) {
	rec := get(t, sampleServer(t), "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)

	var info DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 4, info.Records)
	assert.Equal(t, 2, info.Countries)
	assert.Equal(t, 4, info.SourceRows["population"])
	assert.NotEmpty(t, info.BuildID)
}

func TestRecordsCountryWithComma(t *testing.T) {
	s := newTestServer(t, source.StaticSource{
		types.MetricLifeExpectancy: table(types.MetricLifeExpectancy,
			[]string{"Chad", "46.2", "48.5"},
			[]string{"Congo, Dem. Rep.", "47.4", "51.6"},
		),
		types.MetricPopulation: table(types.MetricPopulation,
			[]string{"Chad", "5.9M", "8.3M"},
			[]string{"Congo, Dem. Rep.", "34.6M", "48.6M"},
		),
		types.MetricGNIPerCapita: table(types.MetricGNIPerCapita,
			[]string{"Chad", "750", "1.1k"},
			[]string{"Congo, Dem. Rep.", "1.3k", "580"},
		),
	})

	q := url.Values{}
	q.Add("year", "2000")
	q.Add("country", "Congo, Dem. Rep.")
	q.Add("country", "Chad")
	rec := get(t, s, "/api/records?"+q.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body RecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Congo, Dem. Rep.", "Chad"}, body.Countries)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Chad", body.Records[0].Country)
	assert.Equal(t, "Congo, Dem. Rep.", body.Records[1].Country)
	assert.Equal(t, types.Some(48.6e6), body.Records[1].Population)
}
