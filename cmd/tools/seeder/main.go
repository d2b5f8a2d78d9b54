package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	productIDs := seedProducts(db)
	bundleIDs := seedBundles(db, productIDs)
	seedSpecials(db, productIDs, bundleIDs)
	seedOrders(db, productIDs)
	seedReviews(db, productIDs)
	seedMessages(db)

	log.Println("Seeding completed successfully!")
}

func seedProducts(db *sql.DB) []string {
	products := []struct {
		Title string
		Slug  string
		Price int64
		Stock int32
	}{
		{"Circuit Playground Classic", "circuit-playground-classic", 1995, 24},
		{"Raspberry Pi 5 8GB", "raspberry-pi-5-8gb", 7999, 12},
		{"Mechanical Keyboard TKL", "mechanical-keyboard-tkl", 8900, 3},
		{"USB-C Cable 2m", "usb-c-cable-2m", 1299, 140},
		{"Soldering Station 60W", "soldering-station-60w", 5450, 7},
		{"Breadboard Jumper Kit", "breadboard-jumper-kit", 899, 2},
		{"OLED Display 1.3in", "oled-display-13in", 1450, 33},
		{"Stepper Motor NEMA17", "stepper-motor-nema17", 2199, 18},
	}

	fmt.Println("Seeding Products...")
	ids := make([]string, 0, len(products))
	for _, p := range products {
		var id string
		err := db.QueryRow(`
			INSERT INTO products (title, slug, description, price_cents, stock)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, price_cents = EXCLUDED.price_cents
			RETURNING id`, p.Title, p.Slug, "Demo product: "+p.Title, p.Price, p.Stock).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.Slug, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func seedBundles(db *sql.DB, productIDs []string) []string {
	if len(productIDs) < 4 {
		return nil
	}
	bundles := []struct {
		Title    string
		Slug     string
		Price    int64
		Products []string
	}{
		{"Maker Starter Kit", "maker-starter-kit", 9900, []string{productIDs[0], productIDs[3], productIDs[5]}},
		{"Workbench Essentials", "workbench-essentials", 12900, []string{productIDs[2], productIDs[4]}},
	}

	fmt.Println("Seeding Bundles...")
	ids := make([]string, 0, len(bundles))
	for _, b := range bundles {
		var id string
		err := db.QueryRow(`
			INSERT INTO bundles (title, slug, description, price_cents, product_ids)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, price_cents = EXCLUDED.price_cents
			RETURNING id`, b.Title, b.Slug, "Demo bundle: "+b.Title, b.Price, toUUIDArray(b.Products)).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed bundle %s: %v", b.Slug, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func seedSpecials(db *sql.DB, productIDs, bundleIDs []string) {
	fmt.Println("Seeding Specials...")
	now := time.Now().UTC()

	specials := []struct {
		Title    string
		StartsAt time.Time
		EndsAt   time.Time
		Scope    string
		Targets  []string
		Type     string
		Value    float64
	}{
		{"Weekend Flash Sale", now.Add(-24 * time.Hour), now.Add(48 * time.Hour), "product", productIDs[:2], "percent", 20},
		{"Keyboard Clearance", now.Add(-time.Hour), now.Add(7 * 24 * time.Hour), "product", productIDs[2:3], "amount_off", 15},
		{"Everything Must Go", now.Add(72 * time.Hour), now.Add(96 * time.Hour), "sitewide", nil, "percent", 10},
		{"Last Season Promo", now.Add(-30 * 24 * time.Hour), now.Add(-20 * 24 * time.Hour), "sitewide", nil, "percent", 25},
	}
	if len(bundleIDs) > 0 {
		specials = append(specials, struct {
			Title    string
			StartsAt time.Time
			EndsAt   time.Time
			Scope    string
			Targets  []string
			Type     string
			Value    float64
		}{"Starter Kit Deal", now.Add(-time.Hour), now.Add(14 * 24 * time.Hour), "bundle", bundleIDs[:1], "fixed_price", 79.00})
	}

	for _, s := range specials {
		status := "scheduled"
		switch {
		case !now.Before(s.EndsAt):
			status = "expired"
		case !now.Before(s.StartsAt):
			status = "active"
		}
		_, err := db.Exec(`
			INSERT INTO specials (title, starts_at, ends_at, scope, target_ids, discount_type, discount_value, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.Title, s.StartsAt, s.EndsAt, s.Scope, toUUIDArray(s.Targets), s.Type, s.Value, status)
		if err != nil {
			log.Fatalf("Failed to seed special %s: %v", s.Title, err)
		}
	}
}

func seedOrders(db *sql.DB, productIDs []string) {
	fmt.Println("Seeding Orders...")
	orders := []struct {
		Name   string
		Email  string
		Status string
	}{
		{"Ada Lovelace", "ada@example.com", "pending"},
		{"Grace Hopper", "grace@example.com", "paid"},
		{"Alan Turing", "alan@example.com", "shipped"},
		{"Katherine Johnson", "katherine@example.com", "delivered"},
	}

	for i, o := range orders {
		var orderID string
		err := db.QueryRow(`
			INSERT INTO orders (customer_name, customer_email, status, total_cents)
			VALUES ($1, $2, $3, 0)
			RETURNING id`, o.Name, o.Email, o.Status).Scan(&orderID)
		if err != nil {
			log.Fatalf("Failed to seed order for %s: %v", o.Name, err)
		}

		productID := productIDs[i%len(productIDs)]
		var title string
		var price int64
		if err := db.QueryRow(`SELECT title, price_cents FROM products WHERE id = $1`, productID).Scan(&title, &price); err != nil {
			log.Fatalf("Failed to read product for order items: %v", err)
		}
		qty := int32(i%3 + 1)
		if _, err := db.Exec(`
			INSERT INTO order_items (order_id, item_kind, item_id, title, unit_price_cents, quantity)
			VALUES ($1, 'product', $2, $3, $4, $5)`, orderID, productID, title, price, qty); err != nil {
			log.Fatalf("Failed to seed order items: %v", err)
		}
		if _, err := db.Exec(`UPDATE orders SET total_cents = $2 WHERE id = $1`, orderID, price*int64(qty)); err != nil {
			log.Fatalf("Failed to update order total: %v", err)
		}
	}
}

func seedReviews(db *sql.DB, productIDs []string) {
	fmt.Println("Seeding Reviews...")
	reviews := []struct {
		Author   string
		Rating   int32
		Comment  string
		Approved bool
	}{
		{"Budi Santoso", 5, "Arrived quickly, works perfectly.", true},
		{"Siti Aminah", 4, "Good value for the price.", true},
		{"Andi Pratama", 2, "Packaging was damaged.", false},
		{"Dewi Lestari", 5, "Exactly as described!", false},
	}

	for i, rv := range reviews {
		_, err := db.Exec(`
			INSERT INTO reviews (product_id, author_name, rating, comment, approved)
			VALUES ($1, $2, $3, $4, $5)`,
			productIDs[i%len(productIDs)], rv.Author, rv.Rating, rv.Comment, rv.Approved)
		if err != nil {
			log.Fatalf("Failed to seed review: %v", err)
		}
	}
}

func seedMessages(db *sql.DB) {
	fmt.Println("Seeding Messages...")
	msgs := []struct {
		Name    string
		Email   string
		Subject string
		Body    string
		Read    bool
	}{
		{"Eko Kurniawan", "eko@example.com", "Bulk order inquiry", "Do you offer discounts for orders above 50 units?", false},
		{"Gita Pertiwi", "gita@example.com", "Shipping to Bali?", "Can you ship the soldering station to Denpasar?", false},
		{"Hendra Wijaya", "hendra@example.com", "Thanks!", "Order arrived a day early, great service.", true},
	}

	for _, m := range msgs {
		_, err := db.Exec(`
			INSERT INTO messages (sender_name, sender_email, subject, body, read)
			VALUES ($1, $2, $3, $4, $5)`, m.Name, m.Email, m.Subject, m.Body, m.Read)
		if err != nil {
			log.Fatalf("Failed to seed message: %v", err)
		}
	}
}

// toUUIDArray renders a Postgres uuid[] literal; an empty slice becomes
// an empty array rather than NULL.
func toUUIDArray(ids []string) string {
	out := "{"
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out + "}"
}
