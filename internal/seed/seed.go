package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	ID            string
	Name          string
	Tagline       string
	Description   string
	Price         string
	Unit          string
	Image         string
	Benefits      []string
	StockQuantity int
}

// Apply inserts the storefront catalog. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			ID:            "1",
			Name:          "Catskills Greek Yogurt",
			Tagline:       "Thick, Creamy, & Alive",
			Description:   "Made from 100% grass-fed milk reclaimed from surplus. Strained traditionally for maximum protein and probiotic density. A tart, rich foundation for your gut health.",
			Price:         "12.00",
			Unit:          "32oz",
			Image:         "https://images.unsplash.com/photo-1488477181946-6428a0291777?q=80&w=800&auto=format&fit=crop",
			Benefits:      []string{"20g Protein per serving", "Trillions of CFUs", "Zero thickeners"},
			StockQuantity: 100,
		},
		{
			ID:            "2",
			Name:          "Regenerative Whey Powder",
			Tagline:       "Pure Bioavailable Recovery",
			Description:   "Cold-processed whey from our yogurt making process. Instead of throwing this \"waste\" away, we dehydrate it into a powerful, nutrient-dense powder perfect for smoothies.",
			Price:         "45.00",
			Unit:          "2lb Bag",
			Image:         "https://images.unsplash.com/photo-1593095948071-474c5cc2989d?q=80&w=800&auto=format&fit=crop",
			Benefits:      []string{"Cold-processed", "Complete Amino Profile", "Supports Muscle Repair"},
			StockQuantity: 50,
		},
		{
			ID:            "3",
			Name:          "Ancestral Kefir",
			Tagline:       "The Champagne of Dairy",
			Description:   "Fermented for 24 hours using heirloom grains. This effervescent probiotic drink is potent, tangy, and specifically designed to repopulate your microbiome.",
			Price:         "10.00",
			Unit:          "32oz",
			Image:         "https://images.unsplash.com/photo-1550583724-b2692b85b150?q=80&w=800&auto=format&fit=crop",
			Benefits:      []string{"30+ Probiotic Strains", "Lactose-free", "Mood Boosting"},
			StockQuantity: 75,
		},
		{
			ID:            "4",
			Name:          "Ometepe Island Dried Mango",
			Tagline:       "Sun-Dried Sunshine from Nicaragua",
			Description:   "Hand-selected mangos from Ometepe Island, dehydrated using traditional methods to preserve nutrients and natural sweetness. These mangos were destined to rot back into compost, but now they travel across oceans to nourish communities far away.",
			Price:         "15.00",
			Unit:          "8oz Bag",
			Image:         "https://images.unsplash.com/photo-1614595685421-f6cb8b40c62d?q=80&w=800&auto=format&fit=crop",
			Benefits:      []string{"Rich in Vitamin C", "Natural Energy Boost", "Supports Immune System"},
			StockQuantity: 60,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	benefits, err := json.Marshal(p.Benefits)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO products (id, name, tagline, description, price, unit, image, benefits, is_active, stock_quantity)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8::jsonb, TRUE, $9)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    tagline = EXCLUDED.tagline,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    unit = EXCLUDED.unit,
    image = EXCLUDED.image,
    benefits = EXCLUDED.benefits,
    is_active = EXCLUDED.is_active,
    stock_quantity = EXCLUDED.stock_quantity,
    updated_at = now()
`
	_, err = pool.Exec(ctx, q, p.ID, p.Name, p.Tagline, p.Description, p.Price, p.Unit, p.Image, string(benefits), p.StockQuantity)
	if err != nil {
		return err
	}
	return nil
}
