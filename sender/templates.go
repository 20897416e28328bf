package sender

import "fmt"

// OrderSuccessTemplate renders the order confirmation mail body.
func OrderSuccessTemplate(customerEmail, orderID string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Order Confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f9; margin: 0; padding: 0;">
    <div style="max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
        <div style="background-color: #4caf50; color: #ffffff; text-align: center; padding: 20px;">
            <h1 style="margin: 0; font-size: 24px;">Thank you for your order!</h1>
        </div>
        <div style="padding: 20px; color: #333333;">
            <p>Hi %s,</p>
            <p>Your order <strong>%s</strong> has been confirmed and your license keys are ready.</p>
            <p>You can find your keys in the order details section of your account.</p>
            <p>— The Techzone team</p>
        </div>
    </div>
</body>
</html>`, customerEmail, orderID)
}
