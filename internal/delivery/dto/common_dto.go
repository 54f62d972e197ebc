package dto

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// DeleteResponse reports the outcome of a bulk soft delete
type DeleteResponse struct {
	Deleted  int     `json:"deleted"`
	NotFound []int64 `json:"not_found,omitempty"`
}
