package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeSheetsAPI is a minimal Google Sheets v4 REST server holding one
// spreadsheet.
type fakeSheetsAPI struct {
	mu            sync.Mutex
	spreadsheetID string
	tabs          map[string][][]any
	appended      [][]any
	query         map[string]string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := "/v4/spreadsheets/" + f.spreadsheetID
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, prefix)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case rest == "":
		sheets := []map[string]any{}
		for title := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})

	case strings.HasPrefix(rest, "/values/") && strings.HasSuffix(rest, ":append") && r.Method == http.MethodPost:
		f.query = map[string]string{
			"valueInputOption": r.URL.Query().Get("valueInputOption"),
			"insertDataOption": r.URL.Query().Get("insertDataOption"),
			"range":            strings.TrimSuffix(strings.TrimPrefix(rest, "/values/"), ":append"),
		}
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		_, _ = io.WriteString(w, `{"updates":{"updatedRows":1}}`)

	case strings.HasPrefix(rest, "/values/"):
		rng := strings.TrimPrefix(rest, "/values/")
		f.query = map[string]string{
			"valueRenderOption":    r.URL.Query().Get("valueRenderOption"),
			"dateTimeRenderOption": r.URL.Query().Get("dateTimeRenderOption"),
			"range":                rng,
		}
		tab := strings.Trim(rng, "'")
		_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "majorDimension": "ROWS", "values": f.tabs[tab]})

	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newFakeSheetsAPI(t *testing.T) (*fakeSheetsAPI, *GoogleProvider) {
	t.Helper()
	api := &fakeSheetsAPI{
		spreadsheetID: "sheet-123",
		tabs: map[string][][]any{
			"Pedidos": {
				ordersHeader,
				{"Pizza", "01/10/2026", "12:00", "Ana", 3, "Pronto"},
				{"Salada", "01/10/2026", "12:10", "Caio", "7", "Entregue"},
			},
			"Pratos": {
				menuHeader,
				{"Pratos Principais", "Feijoada", "Feijão preto com carnes", "R$ 45,00"},
				{"Sobremesas", "Pudim", "Pudim de leite", "12,50"},
			},
		},
	}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	provider := NewGoogleProviderWithOptions(
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	return api, provider
}

func TestGoogleProvider_Records(t *testing.T) {
	api, provider := newFakeSheetsAPI(t)

	ws, err := provider.Open(context.Background(), "sheet-123", "Pedidos", ReadOnly)
	require.NoError(t, err)

	records, err := ws.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "3", records[0].Text(ColOrderID, ""))
	assert.Equal(t, "7", records[1].Text(ColOrderID, ""))
	assert.Equal(t, "Caio", records[1].Text(ColCliente, ""))

	assert.Equal(t, "FORMATTED_VALUE", api.query["valueRenderOption"])
	assert.Empty(t, api.query["dateTimeRenderOption"])
	assert.Equal(t, "'Pedidos'", api.query["range"])
}

func TestGoogleProvider_FormattedMenuPrices(t *testing.T) {
	_, provider := newFakeSheetsAPI(t)

	got := NewMenuService(provider, testConfig()).Search(context.Background(), "feijoada").(*searchMatch)
	require.Len(t, got.Pratos, 1)
	price, ok := got.Pratos[0].Value("Preço")
	require.True(t, ok)
	assert.Equal(t, "R$ 45,00", price)

	all := NewMenuService(provider, testConfig()).Full(context.Background()).(*fullMenu)
	require.Len(t, all.Categorias, 2)
	assert.Equal(t, "12,50", all.Categorias[1].Pratos[0].Text("Preço", ""))
}

func TestGoogleProvider_AppendRow(t *testing.T) {
	api, provider := newFakeSheetsAPI(t)

	ws, err := provider.Open(context.Background(), "sheet-123", "Pedidos", ReadWrite)
	require.NoError(t, err)
	require.NoError(t, ws.AppendRow(context.Background(), []any{"Feijoada", "02/10/2026", "13:00", "Bia", int64(8), "Pronto"}))

	require.Len(t, api.appended, 1)
	assert.Equal(t, []any{"Feijoada", "02/10/2026", "13:00", "Bia", float64(8), "Pronto"}, api.appended[0])
	assert.Equal(t, "RAW", api.query["valueInputOption"])
	assert.Equal(t, "INSERT_ROWS", api.query["insertDataOption"])
}

func TestGoogleProvider_OpenErrors(t *testing.T) {
	_, provider := newFakeSheetsAPI(t)

	_, err := provider.Open(context.Background(), "missing", "Pedidos", ReadOnly)
	assert.ErrorIs(t, err, ErrSpreadsheetNotFound)

	_, err = provider.Open(context.Background(), "sheet-123", "Estoque", ReadOnly)
	assert.ErrorIs(t, err, ErrWorksheetNotFound)
}

func TestGoogleProvider_DrivesOrderService(t *testing.T) {
	api, provider := newFakeSheetsAPI(t)
	s := fixedService(provider)

	got := s.Insert(context.Background(), "Feijoada", "Bia").(*insertResult)
	require.True(t, got.Success)
	assert.Equal(t, int64(8), got.OrderID)
	require.Len(t, api.appended, 1)

	lookup := s.GetByID(context.Background(), "7").(*orderLookup)
	assert.True(t, lookup.Found)
}

func TestResolveCredentials(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "credentials.json")
	fallback := filepath.Join(dir, "tools", "credentials.json")

	_, err := ResolveCredentials(primary, fallback)
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, os.MkdirAll(filepath.Dir(fallback), 0o755))
	require.NoError(t, os.WriteFile(fallback, []byte(`{}`), 0o600))

	got, err := ResolveCredentials(primary, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	require.NoError(t, os.WriteFile(primary, []byte(`{}`), 0o600))
	p, err := NewGoogleProvider(primary, fallback)
	require.NoError(t, err)
	assert.Equal(t, primary, p.CredentialsFile)
}
