package guardian

import "fmt"

// Closed parameter value sets defined by the Guardian Open Platform.
// Using the typed constants keeps illegal values out of requests by
// construction; the API rejects anything else with a 400.

// Endpoint selects which part of the API a query targets.
type Endpoint string

const (
	// EndpointContent searches all pieces of content. Default.
	EndpointContent Endpoint = "content"
	// EndpointTags searches the tags used to categorise content.
	EndpointTags Endpoint = "tags"
	// EndpointSections searches site sections.
	EndpointSections Endpoint = "sections"
	// EndpointEditions searches editions (the UK, US and Australia front pages).
	EndpointEditions Endpoint = "editions"
	// EndpointSingleItem fetches one item by its id. The item id is the
	// request path, matching paths on theguardian.com.
	EndpointSingleItem Endpoint = "single-item"
)

// OrderBy is the result ordering criterion (order-by parameter).
type OrderBy string

const (
	OrderByNewest    OrderBy = "newest"
	OrderByOldest    OrderBy = "oldest"
	OrderByRelevance OrderBy = "relevance"
)

// OrderDate chooses which date order-by sorts on (order-date parameter).
type OrderDate string

const (
	OrderDatePublished        OrderDate = "published"
	OrderDateNewspaperEdition OrderDate = "newspaper-edition"
	OrderDateLastModified     OrderDate = "last-modified"
)

// UseDate chooses which date the from-date/to-date filters apply to
// (use-date parameter).
type UseDate string

const (
	UseDatePublished        UseDate = "published"
	UseDateFirstPublication UseDate = "first-publication"
	UseDateNewspaperEdition UseDate = "newspaper-edition"
	UseDateLastModified     UseDate = "last-modified"
)

// Field is an optional content field, requested with show-fields and
// returned inside each result's "fields" object.
type Field string

const (
	FieldTrailText            Field = "trailText"
	FieldHeadline             Field = "headline"
	FieldShowInRelatedContent Field = "showInRelatedContent"
	FieldBody                 Field = "body"
	FieldBodyText             Field = "bodyText"
	FieldLastModified         Field = "lastModified"
	FieldHasStoryPackage      Field = "hasStoryPackage"
	FieldScore                Field = "score"
	FieldStandfirst           Field = "standfirst"
	FieldShortURL             Field = "shortUrl"
	FieldByline               Field = "byline"
	FieldThumbnail            Field = "thumbnail"
	FieldWordcount            Field = "wordcount"
	FieldCommentable          Field = "commentable"
	FieldIsPremoderated       Field = "isPremoderated"
	FieldAllowUGC             Field = "allowUgc"
	FieldPublication          Field = "publication"
	FieldInternalPageCode     Field = "internalPageCode"
	FieldProductionOffice     Field = "productionOffice"
	FieldShouldHideAdverts    Field = "shouldHideAdverts"
	FieldLiveBloggingNow      Field = "liveBloggingNow"
	FieldCommentCloseDate     Field = "commentCloseDate"
	FieldStarRating           Field = "starRating"
	// FieldAll requests every field and overrides the rest of the list.
	FieldAll Field = "all"
)

// Tag is a metadata tag type, requested with show-tags.
type Tag string

const (
	TagBlog                 Tag = "blog"
	TagContributor          Tag = "contributor"
	TagKeyword              Tag = "keyword"
	TagNewspaperBook        Tag = "newspaper-book"
	TagNewspaperBookSection Tag = "newspaper-book-section"
	TagPublication          Tag = "publication"
	TagSeries               Tag = "series"
	TagTone                 Tag = "tone"
	TagType                 Tag = "type"
	// TagAll requests every tag type and overrides the rest of the list.
	TagAll Tag = "all"
)

// Block is a show-blocks selector. A piece of content has a single
// main and body block; liveblogs have many body blocks, addressed by
// the parameterised constructors below.
type Block string

const (
	BlockMain          Block = "main"
	BlockBody          Block = "body"
	BlockBodyKeyEvents Block = "body:key-events"
	// BlockAll requests every block and overrides the rest of the list.
	BlockAll Block = "all"
)

// BlockBodyLatest selects the n most recent body blocks.
func BlockBodyLatest(n int) Block {
	return Block(fmt.Sprintf("body:latest:%d", n))
}

// BlockBodyOldest selects the n oldest body blocks.
func BlockBodyOldest(n int) Block {
	return Block(fmt.Sprintf("body:oldest:%d", n))
}

// BlockBodyWithID selects only the body block with the given id.
func BlockBodyWithID(id string) Block {
	return Block("body:" + id)
}

// BlockBodyAroundID selects the given block and n blocks either side
// of it.
func BlockBodyAroundID(id string, n int) Block {
	return Block(fmt.Sprintf("body:around:%s:%d", id, n))
}

// BlockBodyPublishedSince selects body blocks published since the
// given Unix timestamp in milliseconds.
func BlockBodyPublishedSince(millis int64) Block {
	return Block(fmt.Sprintf("body:published-since:%d", millis))
}
