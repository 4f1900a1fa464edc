package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"diancan_back_end/client"
)

// Petit client de vitrine en ligne de commande : parcourir le menu, remplir
// le panier local et passer commande, comme le ferait le front web.
func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	api := client.NewAPI(apiBase())
	cart, err := client.NewCart(&client.FileStore{Path: cartPath()})
	if err != nil {
		log.Fatal("❌ Chargement du panier:", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "menu":
		category := ""
		if len(os.Args) > 2 {
			category = os.Args[2]
		}
		items, err := api.Menu(ctx, category)
		if err != nil {
			log.Fatal("❌", err)
		}
		for _, item := range items {
			shop := ""
			if item.Merchant != nil {
				shop = " — " + item.Merchant.ShopName
			}
			fmt.Printf("%s  %-20s ¥%.2f  [%s]%s\n", item.ID, item.Name, item.Price, item.Category, shop)
		}

	case "add":
		if len(os.Args) < 3 {
			log.Fatal("usage: storefront add <menuItemId>")
		}
		item, err := api.MenuItem(ctx, os.Args[2])
		if err != nil {
			log.Fatal("❌", err)
		}
		if err := cart.Add(*item); err != nil {
			log.Fatal("❌", err)
		}
		fmt.Printf("✅ %s ajouté (%d articles au panier)\n", item.Name, cart.TotalCount())

	case "remove":
		if len(os.Args) < 3 {
			log.Fatal("usage: storefront remove <menuItemId>")
		}
		if err := cart.Remove(os.Args[2]); err != nil {
			log.Fatal("❌", err)
		}
		fmt.Println("✅ Retiré du panier")

	case "cart":
		if cart.IsEmpty() {
			fmt.Println("Panier vide")
			return
		}
		// Complète les entrées sans snapshot avant affichage
		if err := cart.Reconcile(ctx, api); err != nil {
			log.Fatal("❌ Réconciliation:", err)
		}
		for _, e := range cart.Entries() {
			name, price := "?", 0.0
			if e.Name != nil {
				name = *e.Name
			}
			if e.Price != nil {
				price = *e.Price
			}
			fmt.Printf("%-20s x%d  ¥%.2f\n", name, e.Quantity, price*float64(e.Quantity))
		}
		fmt.Printf("Total : ¥%.2f\n", cart.PriceFromCachedSnapshot())

	case "checkout":
		fs := flag.NewFlagSet("checkout", flag.ExitOnError)
		name := fs.String("name", "", "nom du client")
		phone := fs.String("phone", "", "téléphone")
		address := fs.String("address", "", "adresse")
		note := fs.String("note", "", "remarque")
		fs.Parse(os.Args[2:])

		if cart.IsEmpty() {
			log.Fatal("❌ Panier vide")
		}
		order, err := api.CreateOrder(ctx, client.CreateOrderRequest{
			Items:      cart.OrderItems(),
			MerchantID: cart.MerchantID(),
			CustomerInfo: client.CustomerInfo{
				Name: *name, Phone: *phone, Address: *address, Note: *note,
			},
		})
		if err != nil {
			log.Fatal("❌", err)
		}
		if err := cart.Clear(); err != nil {
			log.Fatal("❌", err)
		}
		fmt.Printf("✅ Commande %s créée — total ¥%.2f, statut %s\n", order.OrderNumber, order.TotalPrice, order.Status)

	case "clear":
		if err := cart.Clear(); err != nil {
			log.Fatal("❌", err)
		}
		fmt.Println("✅ Panier vidé")

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <commande>

  menu [catégorie]       liste les plats disponibles
  add <menuItemId>       ajoute un plat au panier
  remove <menuItemId>    retire un plat du panier
  cart                   affiche le panier (avec réconciliation)
  checkout [options]     passe la commande
  clear                  vide le panier`)
}

func apiBase() string {
	if base := os.Getenv("STOREFRONT_API"); base != "" {
		return base
	}
	return "http://localhost:3000"
}

func cartPath() string {
	if path := os.Getenv("STOREFRONT_CART"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cart.json"
	}
	return filepath.Join(home, ".diancan", "cart.json")
}
