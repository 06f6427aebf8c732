package middleware

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ServerInfo prints the startup banner and emits the structured
// server-started log
func ServerInfo(port string, logger *zap.Logger) {
	hostname, _ := os.Hostname()
	goVersion := runtime.Version()
	numCPU := runtime.NumCPU()
	startTime := time.Now().Format("2006-01-02 15:04:05")

	fmt.Println("")
	fmt.Println("☕ " + boldColor + "Café Inventory Service" + resetColor)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("📅 Started at: " + startTime)
	fmt.Println("🌐 Server URL: " + cyanColor + "http://localhost:" + port + resetColor)
	fmt.Println("💻 Hostname: " + hostname)
	fmt.Println("🔧 Go Version: " + goVersion)
	fmt.Println("⚡ CPU Cores: " + fmt.Sprintf("%d", numCPU))
	fmt.Println("")
	fmt.Println("📊 " + boldColor + "Available Endpoints:" + resetColor)
	fmt.Println("   GET  " + greenColor + "/" + resetColor + "            - API Information")
	fmt.Println("   GET  " + greenColor + "/items" + resetColor + "       - Item listing with stock levels")
	fmt.Println("   GET  " + greenColor + "/items/new" + resetColor + "   - Item registration form data")
	fmt.Println("   POST " + blueColor + "/items/new" + resetColor + "   - Register an item")
	fmt.Println("   GET  " + greenColor + "/stock" + resetColor + "       - Movement form data")
	fmt.Println("   POST " + blueColor + "/stock" + resetColor + "       - Record a stock movement")
	fmt.Println("   GET  " + greenColor + "/stock/list" + resetColor + "  - Movement history")
	fmt.Println("   GET  " + greenColor + "/health" + resetColor + "      - Health Check")
	fmt.Println("")
	fmt.Println("⚙️  " + boldColor + "Environment:" + resetColor)
	fmt.Println("   🗄️  Database: PostgreSQL")
	fmt.Println("   🗃️  Cache: Redis (picker lists only)")
	fmt.Println("   📝 Logging: Structured (Zap)")
	fmt.Println("")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("✨ " + boldColor + "Server is ready to handle requests!" + resetColor)
	fmt.Println("")

	logger.Info("Server started successfully",
		zap.String("port", port),
		zap.String("hostname", hostname),
		zap.String("go_version", goVersion),
		zap.Int("cpu_cores", numCPU),
		zap.String("start_time", startTime),
	)
}
