package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	limiterIdle          = 3 * time.Minute
	limiterSweepInterval = time.Minute
)

// Policy is a token bucket: Burst requests at once, refilled at PerMinute.
type Policy struct {
	Name      string
	PerMinute float64
	Burst     int
}

func (p Policy) limit() rate.Limit {
	return rate.Limit(p.PerMinute / 60.0)
}

var (
	AuthPolicy    = Policy{Name: "auth", PerMinute: 20, Burst: 10}
	GeneralPolicy = Policy{Name: "general", PerMinute: 600, Burst: 50}
	ChatPolicy    = Policy{Name: "chat", PerMinute: 30, Burst: 10}
	// Every match request is a model call
	MatchPolicy = Policy{Name: "match", PerMinute: 6, Burst: 3}
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one bucket per caller key. Idle buckets are swept.
type KeyedLimiter struct {
	policy  Policy
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewKeyedLimiter(policy Policy) *KeyedLimiter {
	l := &KeyedLimiter{
		policy:  policy,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	go l.sweepLoop()
	return l
}

func (l *KeyedLimiter) sweepLoop() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		l.sweep()
	}
}

func (l *KeyedLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-limiterIdle)
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Reserve takes a token for key. When none is left it returns false and how
// long until the next one.
func (l *KeyedLimiter) Reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.policy.limit(), l.policy.Burst)}
		l.buckets[key] = b
	}
	now := l.now()
	b.lastSeen = now
	l.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

// callerKey prefers the authenticated account so users behind one NAT do
// not share a bucket.
func callerKey(c *gin.Context) string {
	if id := c.GetString(ctxUserID); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects callers over the limiter's policy with 429 and a
// Retry-After header.
func RateLimit(l *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := callerKey(c)
		ok, wait := l.Reserve(key)
		if ok {
			c.Next()
			return
		}

		logger.Warn().
			Str("policy", l.policy.Name).
			Str("key", key).
			Str("path", c.Request.URL.Path).
			Str("request_id", RequestID(c)).
			Msg("Rate limit exceeded")

		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	}
}

var (
	authLimiter    = NewKeyedLimiter(AuthPolicy)
	generalLimiter = NewKeyedLimiter(GeneralPolicy)
	chatLimiter    = NewKeyedLimiter(ChatPolicy)
	matchLimiter   = NewKeyedLimiter(MatchPolicy)
)

func AuthRateLimit() gin.HandlerFunc {
	return RateLimit(authLimiter)
}

func GeneralRateLimit() gin.HandlerFunc {
	return RateLimit(generalLimiter)
}

func ChatRateLimit() gin.HandlerFunc {
	return RateLimit(chatLimiter)
}

func MatchRateLimit() gin.HandlerFunc {
	return RateLimit(matchLimiter)
}
