package sheets

import (
	"context"
	"sync"
)

// fakeProvider serves worksheets from memory. Rows are stored with the header
// first, like the Sheets values API returns them.
type fakeProvider struct {
	mu        sync.Mutex
	tabs      map[string][][]any
	openErr   error
	readErr   error
	appendErr error
	opens     []Access
}

func newFakeProvider(tabs map[string][][]any) *fakeProvider {
	if tabs == nil {
		tabs = map[string][][]any{}
	}
	return &fakeProvider{tabs: tabs}
}

func (p *fakeProvider) Open(_ context.Context, _ string, tab string, access Access) (Worksheet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opens = append(p.opens, access)
	if p.openErr != nil {
		return nil, p.openErr
	}
	if _, ok := p.tabs[tab]; !ok {
		return nil, ErrWorksheetNotFound
	}
	return &fakeWorksheet{p: p, tab: tab}, nil
}

func (p *fakeProvider) rows(tab string) [][]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tabs[tab]
}

type fakeWorksheet struct {
	p   *fakeProvider
	tab string
}

func (w *fakeWorksheet) Records(context.Context) ([]Record, error) {
	if w.p.readErr != nil {
		return nil, w.p.readErr
	}
	return recordsFromValues(w.p.rows(w.tab)), nil
}

func (w *fakeWorksheet) AppendRow(_ context.Context, row []any) error {
	if w.p.appendErr != nil {
		return w.p.appendErr
	}
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	w.p.tabs[w.tab] = append(w.p.tabs[w.tab], row)
	return nil
}

var ordersHeader = []any{"Prato", "Data", "Hora", "Cliente", "ID pedido", "Status"}

var menuHeader = []any{"Categoria", "Nome do Prato", "Descrição", "Preço"}

func testConfig() Config {
	return Config{SpreadsheetID: "sheet-123", OrdersTab: "Pedidos", MenuTab: "Pratos"}
}
