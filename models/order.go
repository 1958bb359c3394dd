package models

// Order status values, in fulfilment order. Cancelled sits outside the
// sequence and is reversible; moving in and out of it drives inventory
// reconciliation.
const (
	StatusPlaced         = "Order Placed"
	StatusPacking        = "Packing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

var orderStatuses = map[string]bool{
	StatusPlaced:         true,
	StatusPacking:        true,
	StatusShipped:        true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// OrderItem is a snapshot of the product/variant taken at placement time, so
// historical orders stay stable when the catalog is edited or a product is
// removed.
type OrderItem struct {
	ProductID    string `json:"productId" bson:"productid"`
	VariantID    string `json:"variantId" bson:"variantid"`
	ProductName  string `json:"productName" bson:"productname"`
	SubCategory  string `json:"subCategory,omitempty" bson:"subcategory,omitempty"`
	Color        string `json:"color,omitempty" bson:"color,omitempty"`
	Size         string `json:"size,omitempty" bson:"size,omitempty"`
	Age          string `json:"age,omitempty" bson:"age,omitempty"`
	AgeUnit      string `json:"ageUnit,omitempty" bson:"ageunit,omitempty"`
	Quantity     int    `json:"quantity" bson:"quantity"`
	ProductImage string `json:"productImage,omitempty" bson:"productimage,omitempty"`
}

// Address is denormalized shipping information.
type Address struct {
	FirstName string `json:"firstName" bson:"firstname"`
	LastName  string `json:"lastName,omitempty" bson:"lastname,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Street    string `json:"street" bson:"street"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state,omitempty" bson:"state,omitempty"`
	Zipcode   string `json:"zipcode,omitempty" bson:"zipcode,omitempty"`
	Country   string `json:"country" bson:"country"`
	Phone     string `json:"phone" bson:"phone"`
}

type Order struct {
	OrderID       string      `json:"orderId" bson:"orderid"`
	UserID        string      `json:"userId" bson:"userid"`
	Items         []OrderItem `json:"items" bson:"items"`
	Address       Address     `json:"address" bson:"address"`
	Amount        float64     `json:"amount" bson:"amount"`
	PaymentMethod string      `json:"paymentMethod" bson:"paymentmethod"`
	Payment       bool        `json:"payment" bson:"payment"`
	Status        string      `json:"status" bson:"status"`
	Date          int64       `json:"date" bson:"date"`
}
