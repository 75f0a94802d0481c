package identity

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// proxyInfo holds one SOCKS5 proxy with its measured latency.
type proxyInfo struct {
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Country  string        `json:"country"`
	Latency  time.Duration `json:"latency"`
	LastTest time.Time     `json:"last_test"`
	Working  bool          `json:"working"`
}

func (p proxyInfo) URL() string {
	return fmt.Sprintf("socks5://%s:%d", p.Host, p.Port)
}

// proxyPool maintains a small set of verified SOCKS5 proxies sourced
// from public lists and ranked by latency.
type proxyPool struct {
	proxies        []proxyInfo
	mutex          sync.RWMutex
	lastUpdate     time.Time
	updateInterval time.Duration
}

func newProxyPool() *proxyPool {
	return &proxyPool{
		proxies:        make([]proxyInfo, 0),
		updateInterval: 30 * time.Minute,
	}
}

// fetchFromSources pulls proxy lists until one source yields usable
// entries.
func (pp *proxyPool) fetchFromSources() ([]proxyInfo, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	sources := []struct {
		url    string
		format string
	}{
		{"https://spys.me/socks.txt", "spys"},
		{"https://raw.githubusercontent.com/TheSpeedX/PROXY-List/master/socks5.txt", "simple"},
		{"https://www.proxy-list.download/api/v1/get?type=socks5", "simple"},
		{"https://api.proxyscrape.com/v2/?request=get&protocol=socks5&timeout=10000&country=all&format=textplain", "simple"},
	}

	for _, source := range sources {
		req, err := http.NewRequest("GET", source.url, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/plain,text/html,*/*")

		resp, err := client.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("url", source.url).Msg("Proxy source unreachable")
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != 200 {
			continue
		}

		bodyStr := string(body)
		// HTML means an error page, not a proxy list
		if strings.Contains(bodyStr, "<!DOCTYPE") || strings.Contains(bodyStr, "<html") {
			continue
		}

		proxies := pp.parseProxyText(bodyStr, source.format)
		if len(proxies) > 0 {
			log.Info().Int("count", len(proxies)).Str("source", source.url).Msg("Found proxies from source")
			return proxies, nil
		}
	}

	return nil, fmt.Errorf("failed to fetch proxies from all sources")
}

func (pp *proxyPool) parseProxyText(bodyStr, format string) []proxyInfo {
	var proxies []proxyInfo

	for _, line := range strings.Split(bodyStr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || len(line) < 7 {
			continue
		}

		if format == "spys" {
			proxies = append(proxies, pp.parseSpysLine(line)...)
		} else if proxy := pp.parseHostPort(line, "Unknown"); proxy != nil {
			proxies = append(proxies, *proxy)
		}
	}

	return proxies
}

// parseSpysLine handles the spys.me format, which packs several
// IP:PORT COUNTRY groups on one line.
func (pp *proxyPool) parseSpysLine(line string) []proxyInfo {
	var proxies []proxyInfo

	fields := strings.Fields(line)
	for i, field := range fields {
		if !strings.Contains(field, ":") {
			continue
		}

		country := "Unknown"
		if i+1 < len(fields) {
			if parts := strings.Split(fields[i+1], "-"); len(parts[0]) == 2 {
				country = parts[0]
			}
		}

		if proxy := pp.parseHostPort(field, country); proxy != nil {
			proxies = append(proxies, *proxy)
		}
	}

	return proxies
}

func (pp *proxyPool) parseHostPort(s, country string) *proxyInfo {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return nil
	}

	host := strings.TrimSpace(parts[0])
	portStr := strings.TrimSpace(parts[1])
	if idx := strings.IndexAny(portStr, " \t\r\n"); idx != -1 {
		portStr = portStr[:idx]
	}

	ipAddr := net.ParseIP(host)
	if ipAddr == nil || !isValidPublicIP(ipAddr) {
		return nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 80 || port > 65000 || wellKnownPorts[port] {
		return nil
	}

	return &proxyInfo{
		Host:    host,
		Port:    port,
		Country: country,
	}
}

// wellKnownPorts are service ports that never host a SOCKS proxy.
var wellKnownPorts = map[int]bool{
	22: true, 23: true, 25: true, 53: true, 110: true, 143: true,
	443: true, 993: true, 995: true, 3306: true, 3389: true, 5432: true,
}

func isValidPublicIP(ip net.IP) bool {
	ipv4 := ip.To4()
	if ipv4 == nil {
		return false
	}

	if ipv4[0] == 0 ||
		ipv4[0] == 127 ||
		ipv4[0] == 10 ||
		(ipv4[0] == 172 && ipv4[1] >= 16 && ipv4[1] <= 31) ||
		(ipv4[0] == 192 && ipv4[1] == 168) ||
		(ipv4[0] == 169 && ipv4[1] == 254) ||
		ipv4[0] == 224 ||
		ipv4[0] >= 240 {
		return false
	}

	return ipv4[3] != 0 && ipv4[3] != 255
}

// testLatency verifies the proxy answers TCP and speaks SOCKS5.
func (pp *proxyPool) testLatency(proxy *proxyInfo) {
	testStart := time.Now()
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", proxy.Host, proxy.Port), 5*time.Second)
	if err != nil {
		proxy.Working = false
		proxy.Latency = time.Hour
		return
	}
	defer conn.Close()

	if !testSOCKS5Handshake(conn) {
		proxy.Working = false
		proxy.Latency = time.Hour
		return
	}

	proxy.Working = true
	proxy.Latency = time.Since(testStart)
	proxy.LastTest = time.Now()
}

func testSOCKS5Handshake(conn net.Conn) bool {
	conn.SetDeadline(time.Now().Add(3 * time.Second))
	defer conn.SetDeadline(time.Time{})

	// VER=5, NMETHODS=1, METHODS=0 (no auth)
	if _, err := conn.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		return false
	}

	resp := make([]byte, 2)
	if _, err := conn.Read(resp); err != nil {
		return false
	}
	return resp[0] == 0x05 && resp[1] == 0x00
}

// update refreshes the pool, testing candidates in batches and keeping
// the five fastest verified proxies.
func (pp *proxyPool) update() error {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if time.Since(pp.lastUpdate) < pp.updateInterval && len(pp.proxies) > 0 {
		return nil
	}

	candidates, err := pp.fetchFromSources()
	if err != nil || len(candidates) == 0 {
		if len(pp.proxies) > 0 {
			log.Info().Int("existing_count", len(pp.proxies)).Msg("Proxy refresh failed, keeping existing pool")
			return nil
		}
		if err == nil {
			err = fmt.Errorf("no proxies found")
		}
		return err
	}

	var working []proxyInfo
	var mu sync.Mutex
	const batchSize = 50
	const targetCount = 5

	for i := 0; i < len(candidates) && len(working) < targetCount*2; i += batchSize {
		end := i + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[i:end]

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, 10)

		for j := range batch {
			wg.Add(1)
			go func(proxy *proxyInfo) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				pp.testLatency(proxy)
				if proxy.Working {
					mu.Lock()
					working = append(working, *proxy)
					mu.Unlock()
				}
			}(&batch[j])
		}
		wg.Wait()

		sort.Slice(working, func(i, j int) bool {
			return working[i].Latency < working[j].Latency
		})

		if len(working) >= targetCount {
			break
		}
	}

	if len(working) > targetCount {
		working = working[:targetCount]
	}

	pp.proxies = working
	pp.lastUpdate = time.Now()

	log.Info().Int("count", len(working)).Msg("Updated proxy pool")
	return nil
}

// fastest returns the best working proxy, or nil when the pool is
// empty.
func (pp *proxyPool) fastest() *proxyInfo {
	pp.mutex.RLock()
	defer pp.mutex.RUnlock()

	if len(pp.proxies) == 0 {
		return nil
	}
	proxy := pp.proxies[0]
	return &proxy
}

// drop removes a proxy from the pool by its URL.
func (pp *proxyPool) drop(proxyURL string) {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	for i, proxy := range pp.proxies {
		if proxy.URL() == proxyURL {
			pp.proxies = append(pp.proxies[:i], pp.proxies[i+1:]...)
			log.Info().Str("proxy", proxyURL).Msg("Dropped failing proxy from pool")
			return
		}
	}
}

func (pp *proxyPool) size() int {
	pp.mutex.RLock()
	defer pp.mutex.RUnlock()
	return len(pp.proxies)
}
