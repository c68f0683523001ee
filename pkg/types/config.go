package types

import "time"

// Compiled-in defaults for the external collaborators. Overridable via
// config file, flags, or secrets; never required.
const (
	DefaultBaseURL    = "https://pubchem.ncbi.nlm.nih.gov/rest/pug/compound/name"
	DefaultStoreURI   = "mongodb://localhost:27017"
	DefaultDatabase   = "science_db"
	DefaultCollection = "compounds"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "compound-etl/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the extract stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the PubChem compound-by-name endpoint. Empty selects
	// DefaultBaseURL.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// StoreBackend identifies the document store implementation.
type StoreBackend string

const (
	BackendMongo  StoreBackend = "mongo"
	BackendSQLite StoreBackend = "sqlite"
)

// StoreConfig holds settings for the load stage.
type StoreConfig struct {
	// Backend selects the document store: mongo or sqlite.
	// Empty selects mongo.
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// URI is the MongoDB connection string. Empty selects
	// DefaultStoreURI.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// Path is the SQLite database file path (sqlite backend only).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Database is the database name documents are written to.
	Database string `json:"database" yaml:"database"`

	// Collection is the collection name documents are written to.
	Collection string `json:"collection" yaml:"collection"`

	// Timeout bounds connection establishment and server selection.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Store StoreConfig `json:"store" yaml:"store"`
}
