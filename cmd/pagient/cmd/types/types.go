package types

// ContextKey types the values the root command plants in the command
// context for its subcommands.
type ContextKey string

// ClientAppKey is the context key the initialized client app lives under.
const ClientAppKey ContextKey = "client-app"
