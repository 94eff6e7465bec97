package config

const (
	// TopicArticleEmbed is the NSQ topic carrying one embed task per newly
	// ingested article.
	TopicArticleEmbed = "article.embed"

	// ChannelEmbedWorker is the consumer channel for the embed worker.
	ChannelEmbedWorker = "embedder"
)
