package payload

type PublishRequest struct {
	Title   string         `json:"title"   validate:"required"`
	Content PublishContent `json:"content" validate:"required"`
}

type PublishContent struct {
	HTML string `json:"html" validate:"required"`
	Text string `json:"text" validate:"required"`
}
