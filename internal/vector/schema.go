package vector

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"

	"crepulse/internal/article"
)

// SchemaClient defines the interface for Weaviate schema operations
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

var classNames = map[article.Source]string{
	article.SourceCREDaily:        "CredailyArticle",
	article.SourceMultifamilyDive: "MultifamilydiveArticle",
	article.SourceMultihousing:    "MultihousingArticle",
}

// ClassFor maps a source to its Weaviate class. Each source gets its own
// class so searches stay scoped to one publication.
func ClassFor(src article.Source) string {
	return classNames[src]
}

// articleProperties is the metadata stored alongside each vector so search
// results can be rendered without a round-trip to Postgres.
func articleProperties() []*models.Property {
	return []*models.Property{
		{
			Name:     "articleId",
			DataType: []string{"int"},
		},
		{
			Name:     "title",
			DataType: []string{"text"},
		},
		{
			Name:     "summary",
			DataType: []string{"text"},
		},
		{
			Name:     "link",
			DataType: []string{"string"}, // URL as string (exact match)
		},
		{
			Name:     "author",
			DataType: []string{"text"},
		},
		{
			Name:     "date",
			DataType: []string{"string"},
		},
		{
			Name:     "categories",
			DataType: []string{"string"},
		},
		{
			Name:     "source",
			DataType: []string{"string"},
		},
	}
}

// EnsureSchema checks if the per-source classes exist and creates them if not
func EnsureSchema(ctx context.Context, client SchemaClient) error {
	for _, src := range article.Sources() {
		if err := ensureClass(ctx, client, ClassFor(src)); err != nil {
			return err
		}
	}
	return nil
}

func ensureClass(ctx context.Context, client SchemaClient, className string) error {
	exists, err := client.ClassExists(ctx, className)
	if err != nil {
		return err
	}

	properties := articleProperties()

	if !exists {
		class := &models.Class{
			Class:       className,
			Description: "A news article with its embedding",
			Vectorizer:  "none",
			Properties:  properties,
		}
		return client.CreateClass(ctx, class)
	}

	// Class exists, check for missing properties
	class, err := client.GetClass(ctx, className)
	if err != nil {
		return err
	}

	existingProps := make(map[string]bool)
	for _, p := range class.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range properties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, className, p); err != nil {
				return err
			}
		}
	}

	return nil
}
