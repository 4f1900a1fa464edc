package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"diancan_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// NotifyNewOrder envoie un e-mail au commerçant quand une commande arrive.
// Best effort : appelé en goroutine, ne bloque jamais la création de commande.
// Ne fait rien si SMTP n'est pas configuré ou si le contact n'est pas un e-mail.
func NotifyNewOrder(order models.Order, merchant models.Merchant) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return
	}
	to := merchant.ContactInfo
	if !strings.Contains(to, "@") {
		return
	}

	msg := mail.NewMsg()
	if err := msg.From(fromAddress()); err != nil {
		log.Println("⚠️ Adresse expéditeur invalide:", err)
		return
	}
	if err := msg.To(to); err != nil {
		log.Println("⚠️ Adresse destinataire invalide:", err)
		return
	}
	msg.Subject(fmt.Sprintf("Nouvelle commande %s — %s", order.OrderNumber, merchant.ShopName))
	msg.SetBodyString(mail.TypeTextHTML, newOrderHTML(order))

	client, err := mail.NewClient(host,
		mail.WithPort(smtpPort()),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		log.Println("⚠️ Client SMTP:", err)
		return
	}

	if err := client.DialAndSend(msg); err != nil {
		log.Println("⚠️ Envoi e-mail échoué:", err)
		return
	}
	log.Println("📤 Notification commande envoyée à", to)
}

func fromAddress() string {
	if from := os.Getenv("SMTP_FROM"); from != "" {
		return from
	}
	return "noreply@diancan.local"
}

func smtpPort() int {
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		return p
	}
	return 587
}

// newOrderHTML génère le récapitulatif HTML de la commande
func newOrderHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>¥%.2f</td>
				<td>¥%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	customer := ""
	if order.CustomerInfo.Name != "" || order.CustomerInfo.Phone != "" {
		customer = fmt.Sprintf("<p>Client : %s %s</p>", order.CustomerInfo.Name, order.CustomerInfo.Phone)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Nouvelle commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Nouvelle commande %s</h2>
		%s
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Plat</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>
		<p style="font-size: 18px;"><strong>Total : ¥%.2f</strong></p>
	</div>
</body>
</html>`, order.OrderNumber, customer, itemsHTML, order.TotalPrice)
}
