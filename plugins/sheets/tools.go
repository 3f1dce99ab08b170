package sheets

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/tools"
)

type GetOrderDataInput struct {
	OrderID string `json:"order_id,omitempty" description:"Order id to look up. Leave empty to list every order"`
}

type InsertOrderDataInput struct {
	Prato   string `json:"prato" description:"Name of the dish ordered"`
	Cliente string `json:"cliente" description:"Name of the customer"`
}

type GetMenuDataInput struct {
	Categoria string `json:"categoria,omitempty" description:"Category to filter dishes by (e.g. Sobremesas)"`
	Busca     string `json:"busca,omitempty" description:"Free text matched against dish names and descriptions"`
}

type GetMenuCategoriesInput struct{}

// Tools holds the spreadsheet-backed services behind the order and menu tools.
type Tools struct {
	Orders *OrderService
	Menu   *MenuService
}

// NewTools builds the order and menu services over provider and registers
// get_order_data, insert_order_data, get_menu_data and get_menu_categories.
func NewTools(provider Provider, cfg Config, gk *genkit.Genkit, registry *tools.Registry) *Tools {
	t := &Tools{
		Orders: NewOrderService(provider, cfg),
		Menu:   NewMenuService(provider, cfg),
	}
	if gk == nil || registry == nil {
		return t
	}

	registry.Register(genkit.DefineTool[*GetOrderDataInput, *tools.TextResponse](
		gk,
		"get_order_data",
		"Looks up a restaurant order by its id in the orders spreadsheet, or lists every order when no id is given.",
		func(ctx *ai.ToolContext, input *GetOrderDataInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "get_order_data", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.GetOrderData(ctx, &GetOrderDataInput{OrderID: tools.StringParam(args, "order_id")})
	})

	registry.Register(genkit.DefineTool[*InsertOrderDataInput, *tools.TextResponse](
		gk,
		"insert_order_data",
		"Registers a new order for a dish and customer. Date, time, order id and status are generated automatically.",
		func(ctx *ai.ToolContext, input *InsertOrderDataInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "insert_order_data", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.InsertOrderData(ctx, &InsertOrderDataInput{
			Prato:   tools.StringParam(args, "prato"),
			Cliente: tools.StringParam(args, "cliente"),
		})
	})

	registry.Register(genkit.DefineTool[*GetMenuDataInput, *tools.TextResponse](
		gk,
		"get_menu_data",
		"Queries the restaurant menu: dishes of a category, a free-text search over names and descriptions, or the full menu grouped by category.",
		func(ctx *ai.ToolContext, input *GetMenuDataInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "get_menu_data", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.GetMenuData(ctx, &GetMenuDataInput{
			Categoria: tools.StringParam(args, "categoria"),
			Busca:     tools.StringParam(args, "busca"),
		})
	})

	registry.Register(genkit.DefineTool[*GetMenuCategoriesInput, *tools.TextResponse](
		gk,
		"get_menu_categories",
		"Lists the dish categories available on the restaurant menu.",
		func(ctx *ai.ToolContext, input *GetMenuCategoriesInput) (*tools.TextResponse, error) {
			return registry.ExecuteTool(ctx, "get_menu_categories", tools.ArgsOf(input))
		},
	), func(ctx context.Context, args map[string]interface{}) (*tools.TextResponse, error) {
		return t.GetMenuCategories(ctx, &GetMenuCategoriesInput{})
	})

	return t
}

func (t *Tools) GetOrderData(ctx context.Context, input *GetOrderDataInput) (*tools.TextResponse, error) {
	if input.OrderID != "" {
		log.Debugf(ctx, "GetOrderData looking up order %s", input.OrderID)
		return tools.JSON(t.Orders.GetByID(ctx, input.OrderID)), nil
	}
	log.Debugf(ctx, "GetOrderData listing all orders")
	return tools.JSON(t.Orders.GetAll(ctx)), nil
}

func (t *Tools) InsertOrderData(ctx context.Context, input *InsertOrderDataInput) (*tools.TextResponse, error) {
	log.Debugf(ctx, "InsertOrderData prato=%q cliente=%q", input.Prato, input.Cliente)
	return tools.JSON(t.Orders.Insert(ctx, input.Prato, input.Cliente)), nil
}

func (t *Tools) GetMenuData(ctx context.Context, input *GetMenuDataInput) (*tools.TextResponse, error) {
	log.Debugf(ctx, "GetMenuData categoria=%q busca=%q", input.Categoria, input.Busca)
	return tools.JSON(t.Menu.Query(ctx, input.Categoria, input.Busca)), nil
}

func (t *Tools) GetMenuCategories(ctx context.Context, _ *GetMenuCategoriesInput) (*tools.TextResponse, error) {
	return tools.JSON(t.Menu.Categories(ctx)), nil
}
