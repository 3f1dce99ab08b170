package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuProvider(rows ...[]any) *fakeProvider {
	values := [][]any{menuHeader}
	values = append(values, rows...)
	return newFakeProvider(map[string][][]any{"Pratos": values})
}

func sampleMenu() *fakeProvider {
	return menuProvider(
		[]any{"Pratos Principais", "Feijoada", "Feijão preto com carnes", float64(45)},
		[]any{"Sobremesas", "Pudim", "Pudim de leite condensado", float64(12)},
		[]any{"Bebidas", "Suco de Maracujá", "Suco natural", float64(9)},
		[]any{"Sobremesas", "Brigadeiro", "Doce de chocolate", float64(5)},
	)
}

func TestMenuService_ByCategory(t *testing.T) {
	t.Run("SubstringCaseInsensitive", func(t *testing.T) {
		p := menuProvider(
			[]any{"Sobremesas", "Pudim", "", ""},
			[]any{"Bebidas", "Suco", "", ""},
		)
		got := NewMenuService(p, testConfig()).ByCategory(context.Background(), "sobremesa").(*categoryMatch)

		require.Len(t, got.Pratos, 1)
		assert.Equal(t, "Pudim", got.Pratos[0].Text(ColNomeDoPrato, ""))
		assert.Equal(t, "Pratos da categoria 'sobremesa' - 1 encontrado(s)", got.Message)
		assert.Equal(t, "sobremesa", got.Categoria)
		assert.Equal(t, 1, got.TotalPratos)
	})

	t.Run("AccentedUpperCase", func(t *testing.T) {
		p := menuProvider([]any{"ENTRADAS E PETISCOS", "Coxinha", "", ""}, []any{"Bebidas", "Água", "", ""})
		got := NewMenuService(p, testConfig()).ByCategory(context.Background(), "  Petiscos ").(*categoryMatch)
		assert.Equal(t, 1, got.TotalPratos)
	})

	t.Run("MissListsAvailableCategories", func(t *testing.T) {
		got := NewMenuService(sampleMenu(), testConfig()).ByCategory(context.Background(), "Massas")
		assert.JSONEq(t, `{
			"message": "Categoria 'Massas' não encontrada ou sem pratos",
			"categorias_disponiveis": ["Pratos Principais", "Sobremesas", "Bebidas"],
			"data": []
		}`, marshal(t, got))
	})

	t.Run("NoCategoryColumn", func(t *testing.T) {
		p := newFakeProvider(map[string][][]any{"Pratos": {{"Nome do Prato"}, {"Pão"}}})
		got := NewMenuService(p, testConfig()).ByCategory(context.Background(), "x").(*categoryMiss)
		assert.Equal(t, []string{DefaultCategory}, got.CategoriasDisponiveis)
	})
}

func TestMenuService_Search(t *testing.T) {
	t.Run("MatchesNameOrDescription", func(t *testing.T) {
		got := NewMenuService(sampleMenu(), testConfig()).Search(context.Background(), "PUDIM").(*searchMatch)
		require.Len(t, got.Pratos, 1)
		assert.Equal(t, "Encontrados 1 prato(s) para 'PUDIM'", got.Message)
		assert.Equal(t, "PUDIM", got.TermoBusca)

		got = NewMenuService(sampleMenu(), testConfig()).Search(context.Background(), "chocolate").(*searchMatch)
		require.Len(t, got.Pratos, 1)
		assert.Equal(t, "Brigadeiro", got.Pratos[0].Text(ColNomeDoPrato, ""))
	})

	t.Run("NoMatchSuggests", func(t *testing.T) {
		got := NewMenuService(sampleMenu(), testConfig()).Search(context.Background(), "lasanha")
		assert.JSONEq(t, `{
			"message": "Nenhum prato encontrado para 'lasanha'",
			"sugestao": "Tente buscar por nome do prato ou ingredientes da descrição",
			"data": []
		}`, marshal(t, got))
	})
}

func TestMenuService_Full(t *testing.T) {
	t.Run("GroupsInFirstSeenOrder", func(t *testing.T) {
		got := NewMenuService(sampleMenu(), testConfig()).Full(context.Background()).(*fullMenu)

		assert.Equal(t, "Cardápio completo com 4 pratos em 3 categorias", got.Message)
		assert.Equal(t, 4, got.TotalPratos)
		assert.Equal(t, 3, got.TotalCategorias)
		require.Len(t, got.Categorias, 3)

		names := []string{}
		for _, g := range got.Categorias {
			names = append(names, g.Categoria)
			assert.Len(t, g.Pratos, g.QuantidadePratos)
		}
		assert.Equal(t, []string{"Pratos Principais", "Sobremesas", "Bebidas"}, names)
		assert.Equal(t, 2, got.Categorias[1].QuantidadePratos)
	})

	t.Run("Empty", func(t *testing.T) {
		got := NewMenuService(menuProvider(), testConfig()).Full(context.Background())
		assert.JSONEq(t, `{"message":"Nenhum prato encontrado na planilha","total_pratos":0,"pratos":[]}`, marshal(t, got))
	})

	t.Run("PassesExtraColumnsThrough", func(t *testing.T) {
		got := NewMenuService(menuProvider([]any{"Bebidas", "Café", "Expresso", 4.5}), testConfig()).Full(context.Background())
		assert.JSONEq(t, `{
			"message": "Cardápio completo com 1 pratos em 1 categorias",
			"total_pratos": 1,
			"total_categorias": 1,
			"categorias": [{
				"categoria": "Bebidas",
				"quantidade_pratos": 1,
				"pratos": [{"Categoria":"Bebidas","Nome do Prato":"Café","Descrição":"Expresso","Preço":4.5}]
			}]
		}`, marshal(t, got))
	})
}

func TestMenuService_Query(t *testing.T) {
	s := NewMenuService(sampleMenu(), testConfig())
	ctx := context.Background()

	assert.IsType(t, &categoryMatch{}, s.Query(ctx, "bebidas", "pudim"))
	assert.IsType(t, &searchMatch{}, s.Query(ctx, "", "pudim"))
	assert.IsType(t, &fullMenu{}, s.Query(ctx, "", ""))
}

func TestMenuService_Categories(t *testing.T) {
	got := NewMenuService(sampleMenu(), testConfig()).Categories(context.Background())
	assert.JSONEq(t, `{"categorias":["Pratos Principais","Sobremesas","Bebidas"],"total_categorias":3}`, marshal(t, got))
}

func TestMenuService_Errors(t *testing.T) {
	p := sampleMenu()
	p.readErr = errors.New("timeout")
	s := NewMenuService(p, testConfig())
	ctx := context.Background()

	assert.JSONEq(t, `{"error":"Erro ao carregar cardápio completo: timeout","data":[]}`, marshal(t, s.Full(ctx)))
	assert.JSONEq(t, `{"error":"Erro ao buscar categoria: timeout","data":[]}`, marshal(t, s.ByCategory(ctx, "x")))
	assert.JSONEq(t, `{"error":"Erro ao buscar pratos: timeout","data":[]}`, marshal(t, s.Search(ctx, "x")))
	assert.JSONEq(t, `{"error":"Erro ao listar categorias: timeout","data":[]}`, marshal(t, s.Categories(ctx)))

	missing := NewMenuService(newFakeProvider(nil), testConfig())
	assert.JSONEq(t, `{"error":"Aba 'Pratos' não encontrada na planilha","data":[]}`, marshal(t, missing.Full(ctx)))
}
