// Command seed migrates the database and loads the initial admin account,
// default site options and a handful of demo products.
package main

import (
	"log"
	"os"

	"github.com/velikanov/storefront/internal/config"
	"github.com/velikanov/storefront/internal/hash"
	"github.com/velikanov/storefront/internal/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "123456"
	}
	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		log.Fatalf("hash error: %v", err)
	}

	admin := models.User{
		Username:     "admin",
		Nickname:     "Administrator",
		Email:        "admin@ecommerce.io",
		PasswordHash: passwordHash,
		Blocked:      models.BlockedNo,
		Role:         models.RoleAdmin,
	}
	if err := db.Where("username = ?", admin.Username).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	options := []models.Option{
		{Name: "site_title", Value: "Storefront", Description: "Title shown on the homepage"},
		{Name: "currency", Value: "USD", Description: "Display currency"},
	}
	for _, opt := range options {
		if err := db.Where("option_name = ?", opt.Name).FirstOrCreate(&opt).Error; err != nil {
			log.Fatalf("seed option %s: %v", opt.Name, err)
		}
	}

	products := []models.Product{
		{Name: "Classic Tee", Slug: "classic-tee", Description: "A plain cotton tee.", Image: "classic-tee.jpg", Quantity: 100, RegularPrice: 1999},
		{Name: "Canvas Tote", Slug: "canvas-tote", Description: "Carries groceries and books alike.", Image: "canvas-tote.jpg", Quantity: 50, RegularPrice: 2499, DiscountedPrice: 1899},
		{Name: "Enamel Mug", Slug: "enamel-mug", Description: "Campfire approved.", Image: "enamel-mug.jpg", Quantity: 200, RegularPrice: 1299},
	}
	for _, p := range products {
		if err := db.Where("slug = ?", p.Slug).FirstOrCreate(&p).Error; err != nil {
			log.Fatalf("seed product %s: %v", p.Slug, err)
		}
	}

	log.Println("seed complete")
}
