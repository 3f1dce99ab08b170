package sheets

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/va6996/agenttools/log"
)

// Column names of the orders tab.
const (
	ColPrato   = "Prato"
	ColData    = "Data"
	ColHora    = "Hora"
	ColCliente = "Cliente"
	ColOrderID = "ID pedido"
	ColStatus  = "Status"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Statuses is the set a new order's status is drawn from.
var Statuses = []string{"Pronto", "Em Preparação", "Entregue"}

// Config identifies the spreadsheet and tabs the sheet tools work on.
type Config struct {
	SpreadsheetID string
	OrdersTab     string
	MenuTab       string
	Location      *time.Location
}

// LoadLocation resolves a timezone name, falling back to UTC for "".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// OrderService reads and appends orders on the orders tab.
type OrderService struct {
	provider Provider
	cfg      Config

	// Now and Intn are replaceable for tests.
	Now  func() time.Time
	Intn func(n int) int
}

func NewOrderService(provider Provider, cfg Config) *OrderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &OrderService{
		provider: provider,
		cfg:      cfg,
		Now:      time.Now,
		Intn:     rand.IntN,
	}
}

type orderLookup struct {
	Message            string  `json:"message,omitempty"`
	Error              string  `json:"error,omitempty"`
	Data               *Record `json:"data"`
	Found              bool    `json:"found"`
	TotalOrdersInSheet *int    `json:"total_orders_in_sheet,omitempty"`
}

type orderList struct {
	Message     string   `json:"message,omitempty"`
	Error       string   `json:"error,omitempty"`
	Data        []Record `json:"data"`
	TotalOrders *int     `json:"total_orders,omitempty"`
}

// GetByID returns the first order whose "ID pedido" renders to orderID.
func (s *OrderService) GetByID(ctx context.Context, orderID string) any {
	records, err := s.readOrders(ctx)
	if err != nil {
		log.Warnf(ctx, "GetByID(%s) failed: %v", orderID, err)
		return &orderLookup{Error: describe(err, s.cfg, s.cfg.OrdersTab, "Erro ao buscar pedido")}
	}

	if len(records) == 0 {
		return &orderLookup{Message: "Nenhum pedido encontrado na planilha"}
	}

	for _, rec := range records {
		if rec.Text(ColOrderID, "") == orderID {
			return &orderLookup{
				Message: fmt.Sprintf("Pedido %s encontrado com sucesso", orderID),
				Data:    &rec,
				Found:   true,
			}
		}
	}

	total := len(records)
	return &orderLookup{
		Message:            fmt.Sprintf("Pedido com ID %s não foi encontrado", orderID),
		TotalOrdersInSheet: &total,
	}
}

// GetAll returns every order in sheet order.
func (s *OrderService) GetAll(ctx context.Context) any {
	records, err := s.readOrders(ctx)
	if err != nil {
		log.Warnf(ctx, "GetAll failed: %v", err)
		return &orderList{
			Error: describe(err, s.cfg, s.cfg.OrdersTab, "Erro ao processar dados"),
			Data:  []Record{},
		}
	}

	total := len(records)
	if total == 0 {
		return &orderList{Message: "Nenhum pedido encontrado na planilha", Data: []Record{}, TotalOrders: &total}
	}

	log.Debugf(ctx, "Retrieved %d order(s)", total)
	return &orderList{
		Message:     fmt.Sprintf("Encontrados %d pedido(s) na planilha", total),
		Data:        records,
		TotalOrders: &total,
	}
}

func (s *OrderService) readOrders(ctx context.Context) ([]Record, error) {
	ws, err := s.provider.Open(ctx, s.cfg.SpreadsheetID, s.cfg.OrdersTab, ReadOnly)
	if err != nil {
		return nil, err
	}
	return ws.Records(ctx)
}

// OrderData is one appended row, keyed by column name.
type OrderData struct {
	Prato   string `json:"Prato"`
	Data    string `json:"Data"`
	Hora    string `json:"Hora"`
	Cliente string `json:"Cliente"`
	OrderID int64  `json:"ID pedido"`
	Status  string `json:"Status"`
}

// Row returns the values in the column order of the orders tab.
func (o OrderData) Row() []any {
	return []any{o.Prato, o.Data, o.Hora, o.Cliente, o.OrderID, o.Status}
}

type sheetInfo struct {
	SheetID   string `json:"sheet_id"`
	SheetName string `json:"sheet_name"`
}

type insertResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Error     string     `json:"error,omitempty"`
	OrderID   int64      `json:"order_id,omitempty"`
	OrderData *OrderData `json:"order_data,omitempty"`
	SheetInfo *sheetInfo `json:"sheet_info,omitempty"`
	Missing   []string   `json:"missing_params,omitempty"`
}

// Insert appends a new order for prato and cliente, stamped with the current
// date and time in the configured timezone.
//
// The next id is derived from the rows read just before the append, so two
// concurrent inserts may be assigned the same id.
func (s *OrderService) Insert(ctx context.Context, prato, cliente string) any {
	var missing []string
	if prato == "" {
		missing = append(missing, "prato")
	}
	if cliente == "" {
		missing = append(missing, "cliente")
	}
	if len(missing) > 0 {
		return &insertResult{
			Error:   "Parâmetros obrigatórios faltando: " + strings.Join(missing, ", "),
			Missing: missing,
		}
	}

	now := s.Now().In(s.cfg.Location)

	ws, err := s.provider.Open(ctx, s.cfg.SpreadsheetID, s.cfg.OrdersTab, ReadWrite)
	if err != nil {
		log.Warnf(ctx, "Insert failed to open orders tab: %v", err)
		return &insertResult{Error: describe(err, s.cfg, s.cfg.OrdersTab, "Erro ao inserir pedido")}
	}

	order := OrderData{
		Prato:   prato,
		Data:    now.Format(dateLayout),
		Hora:    now.Format(timeLayout),
		Cliente: cliente,
		OrderID: s.nextOrderID(ctx, ws, now),
		Status:  Statuses[s.Intn(len(Statuses))],
	}

	if err := ws.AppendRow(ctx, order.Row()); err != nil {
		log.Warnf(ctx, "Insert failed to append order %d: %v", order.OrderID, err)
		return &insertResult{Error: describe(err, s.cfg, s.cfg.OrdersTab, "Erro ao inserir pedido")}
	}

	log.Infof(ctx, "Order %d inserted", order.OrderID)
	return &insertResult{
		Success:   true,
		Message:   "Pedido registrado com sucesso!",
		OrderID:   order.OrderID,
		OrderData: &order,
		SheetInfo: &sheetInfo{SheetID: s.cfg.SpreadsheetID, SheetName: s.cfg.OrdersTab},
	}
}

// nextOrderID is one more than the largest integer id on the sheet. Ids that
// do not parse are skipped. When the sheet cannot be read the current Unix
// time is used instead.
func (s *OrderService) nextOrderID(ctx context.Context, ws Worksheet, now time.Time) int64 {
	records, err := ws.Records(ctx)
	if err != nil {
		log.Warnf(ctx, "Failed to read order ids, using timestamp: %v", err)
		return now.Unix()
	}

	var maxID int64
	for _, rec := range records {
		v, ok := rec.Value(ColOrderID)
		if !ok {
			continue
		}
		if id, ok := parseOrderID(v); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func parseOrderID(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case float64:
		return int64(val), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
