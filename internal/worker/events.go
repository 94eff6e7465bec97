package worker

// ArticleEmbedPayload is published to the article.embed topic once an
// article row is persisted. It carries everything the embed worker needs so
// the handler does not read the database.
type ArticleEmbedPayload struct {
	Source    string `json:"source"`
	ArticleID int64  `json:"article_id"`
	Link      string `json:"link"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`

	// Display metadata stored next to the vector
	Author     string   `json:"author,omitempty"`
	Date       string   `json:"date,omitempty"`
	Categories []string `json:"categories,omitempty"`

	CorrelationID string `json:"correlation_id"`
}
