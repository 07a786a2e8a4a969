package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
)

type demoProduct struct {
	key         string
	name        string
	price       int64
	category    string
	description string
}

var catalog = []demoProduct{
	{"1", "Camiseta Básica Premium", 4990, "Camisetas", "Camiseta 100% algodão com corte moderno e confortável."},
	{"2", "Calça Jeans Slim", 12990, "Calças", "Jeans com elastano, lavagem escura e modelagem slim fit."},
	{"3", "Vestido Floral Verão", 8990, "Vestidos", "Tecido leve e fresco, ideal para dias quentes."},
	{"4", "Jaqueta Bomber", 19990, "Casacos", "Estilo urbano e proteção contra o vento."},
	{"5", "Shorts Linho", 6990, "Shorts", "Elegância e conforto em uma peça versátil."},
	{"6", "Camisa Polo Listrada", 7990, "Camisas", "Clássica e atemporal, perfeita para o dia a dia."},
	{"7", "Tênis Casual Branco", 15990, "Calçados", "Conforto e estilo para qualquer ocasião."},
	{"8", "Boné Aba Curva", 3990, "Acessórios", "Proteção solar com muito estilo."},
	{"9", "Relógio Digital Sport", 8990, "Acessórios", "Resistente à água e com cronômetro integrado."},
	{"10", "Mochila Urbana Notebook", 14990, "Acessórios", "Compartimento acolchoado para notebook até 15 polegadas."},
	{"11", "Blusa de Moletom Capuz", 11990, "Casacos", "Moletom flanelado super confortável para o inverno."},
	{"12", "Kit 3 Pares de Meias", 2990, "Acessórios", "Algodão macio e cano médio, cores variadas."},
}

func demoProducts(node *snowflake.Node, storeID int64, now time.Time) ([]productdomain.Product, map[string]int64) {
	ids := make(map[string]int64, len(catalog))
	out := make([]productdomain.Product, 0, len(catalog))
	for _, p := range catalog {
		id := node.Generate().Int64()
		ids[p.key] = id
		out = append(out, productdomain.Product{
			ID:          id,
			StoreID:     storeID,
			Name:        p.name,
			Price:       p.price,
			Image:       "https://picsum.photos/400/400?random=" + p.key,
			Category:    p.category,
			Description: p.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out, ids
}

type demoItem struct {
	product  string
	name     string
	quantity int
	price    int64
}

type demoOrder struct {
	name    string
	phone   string
	daysAgo int
	total   int64
	items   []demoItem
}

// Past orders spread over recency, frequency and spend so every customer
// segment shows up.
var history = []demoOrder{
	{"Maria Silva", "5511999991111", 1, 25000, []demoItem{{"1", "Camiseta", 2, 4990}, {"2", "Calça Jeans", 1, 12990}}},
	{"João Souza", "5511999992222", 2, 8990, []demoItem{{"3", "Vestido", 1, 8990}}},
	{"Ana Pereira", "5511999993333", 3, 45000, []demoItem{{"4", "Jaqueta", 2, 19990}}},
	{"Maria Silva", "5511999991111", 10, 12000, nil},
	{"Maria Silva", "5511999991111", 25, 30000, nil},
	{"Carlos Lima", "5511999994444", 60, 5000, nil},
	{"Roberto Dias", "5511999995555", 95, 50000, nil},
	{"Lucia Santos", "5511999996666", 45, 60000, nil},
	{"Lucia Santos", "5511999996666", 120, 40000, nil},
	{"Novo Cliente", "5511988887777", 0, 15000, []demoItem{{"7", "Tênis", 1, 15990}}},
}

func demoOrders(node *snowflake.Node, storeID int64, productIDs map[string]int64, now time.Time) []orderdomain.Order {
	out := make([]orderdomain.Order, 0, len(history))
	for _, o := range history {
		items := make([]orderdomain.Item, 0, len(o.items))
		for _, it := range o.items {
			items = append(items, orderdomain.Item{
				ProductID: productIDs[it.product],
				Name:      it.name,
				Quantity:  it.quantity,
				Price:     it.price,
			})
		}
		out = append(out, orderdomain.Order{
			ID:            node.Generate().Int64(),
			StoreID:       storeID,
			CustomerName:  o.name,
			CustomerPhone: o.phone,
			Date:          now.AddDate(0, 0, -o.daysAgo),
			Total:         o.total,
			Items:         items,
			Status:        orderdomain.StatusCompleted,
		})
	}
	return out
}
