package email

import "html/template"

// Inline HTML bodies for every transactional email. Kept deliberately plain;
// the storefront frontend owns all rich presentation.

const layoutTop = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f7f2;">
<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 24px; border-radius: 8px;">
<h2 style="color: #2e7d32;">{{.SiteName}}</h2>`

const layoutBottom = `<p>Warm regards,<br>The {{.SiteName}} team</p>
<hr>
<p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. Fresh from our fields to your table.</p>
</div>
</body>
</html>`

var templateBodies = map[Type]string{
	TypeWelcome: `<p>Hello {{.UserName}},</p>
<p>Welcome to {{.SiteName}}! Your account is ready. Browse our organic produce at <a href="{{.SiteURL}}">{{.SiteURL}}</a>.</p>`,

	TypePasswordOTP: `<p>Hello {{.UserName}},</p>
<p>Use this one-time code to reset your password:</p>
<h1 style="color: #2e7d32; font-size: 32px; letter-spacing: 6px;">{{.Code}}</h1>
<p>The code expires in {{.ExpiryMinutes}} minutes and can be used only once. If you did not request it, you can ignore this email.</p>`,

	TypeOrderConfirmation: `<p>Hello {{.UserName}},</p>
<p>Thank you for your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
<table style="width: 100%; border-collapse: collapse;">
{{range .Items}}<tr>
<td style="padding: 4px 0;">{{.Name}} &times; {{.Quantity}}</td>
<td style="text-align: right;">{{.Total}}</td>
</tr>{{end}}
</table>
<p>Subtotal: {{.Subtotal}}<br>
Shipping: {{.ShippingAmount}}<br>
Tax: {{.TaxAmount}}<br>
{{if .DiscountAmount}}Discount: -{{.DiscountAmount}}<br>{{end}}
<strong>Total: {{.TotalAmount}}</strong></p>
<p>Payment method: {{.PaymentMethod}}</p>`,

	TypeOrderCancelled: `<p>Hello {{.UserName}},</p>
<p>Your order <strong>{{.OrderNumber}}</strong> has been cancelled.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>If you already paid online, the amount will be returned to your original payment method.</p>`,

	TypeOrderShipped: `<p>Hello {{.UserName}},</p>
<p>Good news! Your order <strong>{{.OrderNumber}}</strong> has been shipped.</p>
{{if .TrackingNumber}}<p>Courier: {{.Courier}}<br>Tracking number: {{.TrackingNumber}}</p>{{end}}`,

	TypeOrderOutForDelivery: `<p>Hello {{.UserName}},</p>
<p>Your order <strong>{{.OrderNumber}}</strong> is out for delivery and should reach you today.</p>`,

	TypeOrderDelivered: `<p>Hello {{.UserName}},</p>
<p>Your order <strong>{{.OrderNumber}}</strong> has been delivered. We hope you enjoy the harvest!</p>
<p>We would love to hear what you think - leave a review on the products you bought.</p>`,

	TypePaymentSuccess: `<p>Hello {{.UserName}},</p>
<p>We received your payment of <strong>{{.Amount}}</strong> for order <strong>{{.OrderNumber}}</strong>.</p>
<p>Payment reference: {{.PaymentID}}</p>`,

	TypePaymentFailed: `<p>Hello {{.UserName}},</p>
<p>Your payment for order <strong>{{.OrderNumber}}</strong> could not be verified and the order has been cancelled.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>No amount verified by us was captured. Please try placing the order again.</p>`,

	TypeBookingApproved: `<p>Hello {{.VisitorName}},</p>
<p>Your farm visit <strong>{{.BookingNumber}}</strong> is confirmed for {{.PreferredDate}} ({{.TimeSlot}}) for {{.NumberOfGuests}} guest(s).</p>
<p>A few tips for your visit: wear comfortable closed shoes, carry a water bottle, and arrive 10 minutes early at the farm gate. Children must be accompanied by an adult.</p>`,

	TypeBookingRejected: `<p>Hello {{.VisitorName}},</p>
<p>We are sorry - we could not accommodate your farm visit request <strong>{{.BookingNumber}}</strong> for {{.PreferredDate}}.</p>
{{if .RejectionReason}}<p>Reason: {{.RejectionReason}}</p>{{end}}
<p>You are welcome to request another date.</p>`,
}

// Review thank-you bodies are tiered by star rating.
const reviewThanksHigh = `<p>Hello {{.UserName}},</p>
<p>Thank you for the {{.Rating}}-star review of <strong>{{.ProductName}}</strong> - it made our day here on the farm!</p>
<p>Reviews like yours help other customers discover our produce.</p>`

const reviewThanksMid = `<p>Hello {{.UserName}},</p>
<p>Thank you for reviewing <strong>{{.ProductName}}</strong>. Your feedback helps us grow better food.</p>`

const reviewThanksLow = `<p>Hello {{.UserName}},</p>
<p>Thank you for your honest review of <strong>{{.ProductName}}</strong>. We are sorry it did not meet your expectations.</p>
<p>Please write to us at {{.SupportMail}} - we would like to make it right.</p>`

func parseTemplates() map[string]*template.Template {
	parsed := make(map[string]*template.Template)
	for emailType, body := range templateBodies {
		parsed[string(emailType)] = template.Must(
			template.New(string(emailType)).Parse(layoutTop + body + layoutBottom))
	}
	parsed["review_thanks_high"] = template.Must(template.New("review_thanks_high").Parse(layoutTop + reviewThanksHigh + layoutBottom))
	parsed["review_thanks_mid"] = template.Must(template.New("review_thanks_mid").Parse(layoutTop + reviewThanksMid + layoutBottom))
	parsed["review_thanks_low"] = template.Must(template.New("review_thanks_low").Parse(layoutTop + reviewThanksLow + layoutBottom))
	return parsed
}
