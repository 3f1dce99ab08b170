package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/va6996/agenttools/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column names of the menu tab.
const (
	ColCategoria   = "Categoria"
	ColNomeDoPrato = "Nome do Prato"
	ColDescricao   = "Descrição"
)

// DefaultCategory groups dishes whose row has no category column.
const DefaultCategory = "Outros"

const searchSuggestion = "Tente buscar por nome do prato ou ingredientes da descrição"

// MenuService answers menu questions from the menu tab. The tab is read in
// full on every call.
type MenuService struct {
	provider Provider
	cfg      Config
}

func NewMenuService(provider Provider, cfg Config) *MenuService {
	return &MenuService{provider: provider, cfg: cfg}
}

type menuError struct {
	Error string   `json:"error"`
	Data  []Record `json:"data"`
}

type categoryGroup struct {
	Categoria        string   `json:"categoria"`
	QuantidadePratos int      `json:"quantidade_pratos"`
	Pratos           []Record `json:"pratos"`
}

type fullMenu struct {
	Message         string          `json:"message"`
	TotalPratos     int             `json:"total_pratos"`
	TotalCategorias int             `json:"total_categorias"`
	Categorias      []categoryGroup `json:"categorias"`
}

type emptyMenu struct {
	Message     string   `json:"message"`
	TotalPratos int      `json:"total_pratos"`
	Pratos      []Record `json:"pratos"`
}

type categoryMatch struct {
	Message     string   `json:"message"`
	Categoria   string   `json:"categoria"`
	TotalPratos int      `json:"total_pratos"`
	Pratos      []Record `json:"pratos"`
}

type categoryMiss struct {
	Message               string   `json:"message"`
	CategoriasDisponiveis []string `json:"categorias_disponiveis"`
	Data                  []Record `json:"data"`
}

type searchMatch struct {
	Message          string   `json:"message"`
	TermoBusca       string   `json:"termo_busca"`
	TotalEncontrados int      `json:"total_encontrados"`
	Pratos           []Record `json:"pratos"`
}

type searchMiss struct {
	Message  string   `json:"message"`
	Sugestao string   `json:"sugestao"`
	Data     []Record `json:"data"`
}

type categoryList struct {
	Categorias      []string `json:"categorias"`
	TotalCategorias int      `json:"total_categorias"`
}

// Query picks the mode from the non-empty argument: category first, then
// free-text search, otherwise the full menu.
func (s *MenuService) Query(ctx context.Context, categoria, busca string) any {
	switch {
	case categoria != "":
		return s.ByCategory(ctx, categoria)
	case busca != "":
		return s.Search(ctx, busca)
	default:
		return s.Full(ctx)
	}
}

// Full groups every dish by category, in the order categories first appear.
func (s *MenuService) Full(ctx context.Context) any {
	pratos, err := s.load(ctx)
	if err != nil {
		return s.fail(ctx, err, "Erro ao carregar cardápio completo")
	}

	if len(pratos) == 0 {
		return &emptyMenu{Message: "Nenhum prato encontrado na planilha", Pratos: []Record{}}
	}

	var groups []categoryGroup
	index := map[string]int{}
	for _, p := range pratos {
		cat := p.Text(ColCategoria, DefaultCategory)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, categoryGroup{Categoria: cat})
		}
		groups[i].Pratos = append(groups[i].Pratos, p)
		groups[i].QuantidadePratos++
	}

	return &fullMenu{
		Message:         fmt.Sprintf("Cardápio completo com %d pratos em %d categorias", len(pratos), len(groups)),
		TotalPratos:     len(pratos),
		TotalCategorias: len(groups),
		Categorias:      groups,
	}
}

// ByCategory returns dishes whose category contains or equals categoria,
// ignoring case.
func (s *MenuService) ByCategory(ctx context.Context, categoria string) any {
	pratos, err := s.load(ctx)
	if err != nil {
		return s.fail(ctx, err, "Erro ao buscar categoria")
	}

	lower := cases.Lower(language.BrazilianPortuguese)
	want := strings.TrimSpace(lower.String(categoria))

	matches := []Record{}
	for _, p := range pratos {
		cat := lower.String(p.Text(ColCategoria, ""))
		if strings.Contains(cat, want) || cat == want {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		return &categoryMiss{
			Message:               fmt.Sprintf("Categoria '%s' não encontrada ou sem pratos", categoria),
			CategoriasDisponiveis: distinctCategories(pratos),
			Data:                  []Record{},
		}
	}

	return &categoryMatch{
		Message:     fmt.Sprintf("Pratos da categoria '%s' - %d encontrado(s)", categoria, len(matches)),
		Categoria:   categoria,
		TotalPratos: len(matches),
		Pratos:      matches,
	}
}

// Search returns dishes whose name or description contains busca, ignoring
// case.
func (s *MenuService) Search(ctx context.Context, busca string) any {
	pratos, err := s.load(ctx)
	if err != nil {
		return s.fail(ctx, err, "Erro ao buscar pratos")
	}

	lower := cases.Lower(language.BrazilianPortuguese)
	want := strings.TrimSpace(lower.String(busca))

	matches := []Record{}
	for _, p := range pratos {
		nome := lower.String(p.Text(ColNomeDoPrato, ""))
		descricao := lower.String(p.Text(ColDescricao, ""))
		if strings.Contains(nome, want) || strings.Contains(descricao, want) {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		return &searchMiss{
			Message:  fmt.Sprintf("Nenhum prato encontrado para '%s'", busca),
			Sugestao: searchSuggestion,
			Data:     []Record{},
		}
	}

	return &searchMatch{
		Message:          fmt.Sprintf("Encontrados %d prato(s) para '%s'", len(matches), busca),
		TermoBusca:       busca,
		TotalEncontrados: len(matches),
		Pratos:           matches,
	}
}

// Categories lists the distinct categories on the menu.
func (s *MenuService) Categories(ctx context.Context) any {
	pratos, err := s.load(ctx)
	if err != nil {
		return s.fail(ctx, err, "Erro ao listar categorias")
	}
	cats := distinctCategories(pratos)
	return &categoryList{Categorias: cats, TotalCategorias: len(cats)}
}

func (s *MenuService) load(ctx context.Context) ([]Record, error) {
	ws, err := s.provider.Open(ctx, s.cfg.SpreadsheetID, s.cfg.MenuTab, ReadOnly)
	if err != nil {
		return nil, err
	}
	return ws.Records(ctx)
}

func (s *MenuService) fail(ctx context.Context, err error, prefix string) *menuError {
	log.Warnf(ctx, "%s: %v", prefix, err)
	return &menuError{Error: describe(err, s.cfg, s.cfg.MenuTab, prefix), Data: []Record{}}
}

// distinctCategories returns non-empty categories in first-seen order.
func distinctCategories(pratos []Record) []string {
	seen := map[string]bool{}
	cats := []string{}
	for _, p := range pratos {
		cat := p.Text(ColCategoria, DefaultCategory)
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		cats = append(cats, cat)
	}
	return cats
}
