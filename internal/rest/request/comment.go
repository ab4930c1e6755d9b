package request

type Comment struct {
	Comment string `json:"comment"`
}
