package model

// Language identifies this implementation in every response.
const Language = "Go"

// ServerInfo identifies the instance that produced a response.
type ServerInfo struct {
	Language  string `json:"language"`
	Server    string `json:"server"`
	Port      string `json:"port"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// Post is a blog post record
type Post struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	UserID     int        `json:"userId"`
	ServerInfo ServerInfo `json:"serverInfo"`
}

// User is a user record
type User struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	ServerInfo ServerInfo `json:"serverInfo"`
}

// MemoryInfo is reported by the health check. RSS is not measured.
type MemoryInfo struct {
	RSS     string `json:"rss"`
	Threads int    `json:"threads"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string     `json:"status"`
	Language  string     `json:"language"`
	Server    string     `json:"server"`
	Port      string     `json:"port"`
	Timestamp string     `json:"timestamp"`
	Uptime    string     `json:"uptime"`
	Memory    MemoryInfo `json:"memory"`
	Threads   string     `json:"threads"`
}

// PerformanceResponse is the body of GET /performance
type PerformanceResponse struct {
	Language       string `json:"language"`
	Server         string `json:"server"`
	Timestamp      string `json:"timestamp"`
	Result         uint64 `json:"result"`
	ProcessingTime int64  `json:"processingTime"`
	Concurrency    string `json:"concurrency"`
	Threads        string `json:"threads"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error      string     `json:"error"`
	ServerInfo ServerInfo `json:"serverInfo"`
}
