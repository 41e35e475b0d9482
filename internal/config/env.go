package config

type DBDriver string

const (
	DriverPostgres DBDriver = "postgres"
	DriverSQLite   DBDriver = "sqlite"
)

type LLMProvider string

const (
	LLMOpenAI    LLMProvider = "openai"
	LLMAnthropic LLMProvider = "anthropic"
	LLMNone      LLMProvider = "none"
)

type Database struct {
	Driver   DBDriver `mapstructure:"DATABASE_DRIVER" default:"postgres"`
	Host     string   `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int      `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string   `mapstructure:"DATABASE_NAME" default:"labmate"`
	User     string   `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string   `mapstructure:"DATABASE_PASSWORD" default:"labmate"`
	Path     string   `mapstructure:"DATABASE_PATH" default:"labmate.db"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"labmate"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	GrpcPort int    `mapstructure:"GRPC_PORT" default:"9090"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

// Auth drives both the browser session cookie and the bearer tokens.
type Auth struct {
	SessionSecret    string `mapstructure:"SESSION_SECRET" default:"dev-secret-key-change-in-production"`
	SessionName      string `mapstructure:"SESSION_NAME" default:"labmate_session"`
	JWTSecret        string `mapstructure:"JWT_SECRET" default:"labmate-jwt-secret"`
	TokenExpireHours int    `mapstructure:"TOKEN_EXPIRE_HOURS" default:"24"`
}

type LLM struct {
	Provider       LLMProvider `mapstructure:"LLM_PROVIDER" default:"none"`
	Endpoint       string      `mapstructure:"LLM_ENDPOINT" default:"https://api.openai.com/v1"`
	Model          string      `mapstructure:"LLM_MODEL" default:"gpt-4o-mini"`
	APIKey         string      `mapstructure:"LLM_API_KEY"`
	Temperature    float64     `mapstructure:"LLM_TEMPERATURE" default:"0.7"`
	TimeoutSeconds int         `mapstructure:"LLM_TIMEOUT_SECONDS" default:"30"`
}

type RPC struct {
	PubChem RPCPubChem `mapstructure:",squash"`
}

type RPCPubChem struct {
	Addr          string `mapstructure:"PUBCHEM_ADDR" default:"https://pubchem.ncbi.nlm.nih.gov"`
	CacheTTLHours int    `mapstructure:"PUBCHEM_CACHE_TTL_HOURS" default:"24"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version         string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint   string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint  string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	TraceProject    string `mapstructure:"TRACE_TRACEPROJECT" default:""`
	TraceInstanceID string `mapstructure:"TRACE_TRACEINSTANCEID" default:""`
	TraceAK         string `mapstructure:"TRACE_TRACEAK" default:""`
	TraceSK         string `mapstructure:"TRACE_TRACESK" default:""`
}
