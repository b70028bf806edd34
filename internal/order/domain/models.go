package domain

// Order is one row of the orders table. Fields are kept as raw strings
// the way they arrive from the source file; the report layer owns
// parsing. Loading never overwrites an existing order, while the
// ip-mapping merge and location propagation do overwrite their fields.
type Order struct {
	OrderNumber string  `gorm:"column:order_number;primaryKey" json:"order_number"`
	Date        string  `gorm:"column:date" json:"date"`
	City        string  `gorm:"column:city" json:"city"`
	State       string  `gorm:"column:state" json:"state"`
	Zip         string  `gorm:"column:zip" json:"zip"`
	SaleAmount  string  `gorm:"column:sale_amount" json:"sale_amount"`
	IPAddress   *string `gorm:"column:ip_address" json:"ip_address,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// IPAssignment binds one order to one canonical IP address.
type IPAssignment struct {
	OrderNumber string
	IPAddress   string
}
