package weaviate

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"crepulse/internal/article"
	"crepulse/internal/search"
	"crepulse/internal/vector"
)

type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

// objectID derives a stable UUID from source and link, so re-embedding an
// article overwrites its object instead of duplicating it.
func objectID(src article.Source, link string) strfmt.UUID {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(string(src)+link))
	return strfmt.UUID(id.String())
}

func (s *Store) UpsertArticle(ctx context.Context, src article.Source, a article.Article, vec []float32) error {
	obj := &models.Object{
		Class: vector.ClassFor(src),
		ID:    objectID(src, a.Link),
		Properties: map[string]interface{}{
			"articleId":  a.ID,
			"title":      a.Title,
			"summary":    a.Summary,
			"link":       a.Link,
			"author":     a.Author,
			"date":       a.Date,
			"categories": article.JoinCategories(a.Categories),
			"source":     string(src),
		},
		Vector: vec,
	}

	res, err := s.client.Batch().ObjectsBatcher().WithObjects(obj).Do(ctx)
	if err != nil {
		return err
	}
	for _, r := range res {
		if r.Result != nil && r.Result.Errors != nil && len(r.Result.Errors.Error) > 0 {
			return fmt.Errorf("batch upsert: %s", r.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, src article.Source, vec []float32, limit int) ([]search.Result, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vec)

	fields := []graphql.Field{
		{Name: "articleId"},
		{Name: "title"},
		{Name: "summary"},
		{Name: "link"},
		{Name: "author"},
		{Name: "date"},
		{Name: "categories"},
		{Name: "source"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	className := vector.ClassFor(src)

	res, err := s.client.GraphQL().Get().
		WithClassName(className).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var hits []search.Result
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if objects, ok := data[className].([]interface{}); ok {
			for _, o := range objects {
				props, ok := o.(map[string]interface{})
				if !ok {
					continue
				}

				hit := search.Result{}
				if id, ok := props["articleId"].(float64); ok {
					hit.ArticleID = int64(id)
				}
				if title, ok := props["title"].(string); ok {
					hit.Title = title
				}
				if summary, ok := props["summary"].(string); ok {
					hit.Summary = summary
				}
				if link, ok := props["link"].(string); ok {
					hit.Link = link
				}
				if author, ok := props["author"].(string); ok {
					hit.Author = author
				}
				if date, ok := props["date"].(string); ok {
					hit.Date = date
				}
				if categories, ok := props["categories"].(string); ok {
					hit.Categories = article.SplitCategories(categories)
				}
				if source, ok := props["source"].(string); ok {
					hit.Source = source
				}
				if additional, ok := props["_additional"].(map[string]interface{}); ok {
					if certainty, ok := additional["certainty"].(float64); ok {
						hit.Certainty = float32(certainty)
					}
				}

				hits = append(hits, hit)
			}
		}
	}

	return hits, nil
}

// Count reports how many article objects the source's class holds.
func (s *Store) Count(ctx context.Context, src article.Source) (int, error) {
	className := vector.ClassFor(src)

	res, err := s.client.GraphQL().Aggregate().
		WithClassName(className).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("graphql error: %v", res.Errors)
	}

	if data, ok := res.Data["Aggregate"].(map[string]interface{}); ok {
		if objects, ok := data[className].([]interface{}); ok && len(objects) > 0 {
			if props, ok := objects[0].(map[string]interface{}); ok {
				if meta, ok := props["meta"].(map[string]interface{}); ok {
					if count, ok := meta["count"].(float64); ok {
						return int(count), nil
					}
				}
			}
		}
	}
	return 0, nil
}
