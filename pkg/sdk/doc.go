// Package matcher provides an embedded Go client for the material
// similarity matching engine backed by Redis with vector search.
//
// The client runs the full ingest and retrieval pipeline in-process
// against a Redis instance; only the embedding provider is remote.
//
//	client, _ := matcher.New(ctx,
//	    matcher.WithRedis("localhost:6379", "", ""),
//	    matcher.WithEmbedder(myEmbedder),
//	)
//	stored, _ := client.Ingest(ctx, []matcher.Material{{Name: "oak beam"}})
//	res, _ := client.Search(ctx, matcher.SearchRequest{
//	    Material: matcher.Material{Name: "oak beam"},
//	    TopK:     5,
//	})
package matcher
