// Package structured maps statically-described composite types to JSON
// Schema documents and reconstructs typed values from JSON payloads that
// conform to those schemas, the round trip behind LLM structured output.
//
// The core types are:
//
//   - [github.com/deepnoodle-ai/structured/types.Type] describes a value's
//     shape: scalars, enums, records, unions, lists and tuples.
//   - [github.com/deepnoodle-ai/structured/schema.Compile] walks a type and
//     produces its schema document, with shared composite types
//     de-duplicated into $defs.
//   - [github.com/deepnoodle-ai/structured/decode.Decode] rebuilds a typed
//     value from a parsed JSON payload.
//   - [Extractor] wires the pieces to a completion API provider.
//
// # Quick Start
//
//	type City struct {
//	    Name       string `json:"name"`
//	    Population int    `json:"population"`
//	}
//
//	extractor, _ := structured.NewExtractor(structured.ExtractorOptions{
//	    Provider: openai.New(),
//	})
//	city, _ := structured.Extract[City](ctx, extractor, "The largest city in Japan")
//	fmt.Println(city.Name)
//
// LLM providers are in the [github.com/deepnoodle-ai/structured/llm/providers]
// subpackages.
package structured
