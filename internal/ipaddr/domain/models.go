package domain

// IPRecord is one row of the ip_data table, keyed by canonical address.
// An empty city marks the record as unresolved; the enrichment pass
// fills city/state/zip_code in one shot and never deletes rows.
type IPRecord struct {
	IPAddress string `gorm:"column:ip_address;primaryKey" json:"ip_address"`
	City      string `gorm:"column:city" json:"city"`
	State     string `gorm:"column:state" json:"state"`
	ZipCode   string `gorm:"column:zip_code" json:"zip_code"`
}

func (IPRecord) TableName() string {
	return "ip_data"
}

// Resolved reports whether the record carries location data.
func (r IPRecord) Resolved() bool {
	return r.City != ""
}

// LocationUpdate is one accepted enrichment result, keyed by address.
type LocationUpdate struct {
	IPAddress string
	City      string
	State     string
	ZipCode   string
}
