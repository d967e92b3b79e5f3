package middleware

import (
	"sync"
	"time"
)

// OTPRequestRecord tracks OTP requests for a phone number.
type OTPRequestRecord struct {
	Count       int
	FirstReqAt  time.Time
	LastReqAt   time.Time
	Locked      bool
	LockedUntil time.Time
}

// IPOTPRecord tracks OTP requests per IP.
type IPOTPRecord struct {
	Count      int
	FirstReqAt time.Time
	LastReqAt  time.Time
}

// OTPRateLimiter applies escalating waits per phone number (1m, 5m,
// 10m, then a 1h lock) and a coarse per-IP cap (5 per 30 minutes).
type OTPRateLimiter struct {
	phoneRecords  map[string]*OTPRequestRecord
	ipRecords     map[string]*IPOTPRecord
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
}

var globalOTPLimiter *OTPRateLimiter
var otpLimiterOnce sync.Once

// GetOTPRateLimiter returns the process-wide OTP rate limiter.
func GetOTPRateLimiter() *OTPRateLimiter {
	otpLimiterOnce.Do(func() {
		globalOTPLimiter = NewOTPRateLimiter()
	})
	return globalOTPLimiter
}

func NewOTPRateLimiter() *OTPRateLimiter {
	limiter := &OTPRateLimiter{
		phoneRecords: make(map[string]*OTPRequestRecord),
		ipRecords:    make(map[string]*IPOTPRecord),
	}
	limiter.cleanupTicker = time.NewTicker(5 * time.Minute)
	go limiter.cleanup()
	return limiter
}

func (l *OTPRateLimiter) cleanup() {
	for range l.cleanupTicker.C {
		l.mu.Lock()
		now := time.Now()
		for phone, record := range l.phoneRecords {
			if !record.Locked && now.Sub(record.LastReqAt) > time.Hour {
				delete(l.phoneRecords, phone)
			} else if record.Locked && now.After(record.LockedUntil) {
				record.Locked = false
				record.Count = 0
				record.FirstReqAt = time.Time{}
				record.LastReqAt = time.Time{}
			}
		}
		for ip, record := range l.ipRecords {
			if now.Sub(record.LastReqAt) > 30*time.Minute {
				delete(l.ipRecords, ip)
			}
		}
		l.mu.Unlock()
	}
}

// CheckPhoneRateLimit reports whether a phone number may request an
// OTP now. Returns (allowed, waitDuration, message).
func (l *OTPRateLimiter) CheckPhoneRateLimit(phone string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	record, exists := l.phoneRecords[phone]

	if !exists {
		l.phoneRecords[phone] = &OTPRequestRecord{
			Count:      1,
			FirstReqAt: now,
			LastReqAt:  now,
		}
		return true, 0, ""
	}

	if record.Locked {
		if now.Before(record.LockedUntil) {
			return false, record.LockedUntil.Sub(now), "OTP request limit reached. Try again in 1 hour"
		}
		record.Locked = false
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}

	record.Count++
	record.LastReqAt = now

	// Escalating waits measured from the first request in the series.
	requiredWait := map[int]time.Duration{
		2: time.Minute,
		3: 5 * time.Minute,
		4: 10 * time.Minute,
	}

	switch {
	case record.Count <= 1:
		return true, 0, ""
	case record.Count <= 4:
		wait := requiredWait[record.Count]
		elapsed := now.Sub(record.FirstReqAt)
		if elapsed < wait {
			record.Count--
			return false, wait - elapsed, "Please wait before requesting another OTP"
		}
		return true, 0, ""
	case record.Count == 5:
		record.Locked = true
		record.LockedUntil = now.Add(time.Hour)
		return false, time.Hour, "OTP request limit reached. Try again in 1 hour"
	default:
		record.Locked = false
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}
}

// CheckIPRateLimit caps OTP requests per source IP at 5 per 30 minutes.
func (l *OTPRateLimiter) CheckIPRateLimit(ip string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	record, exists := l.ipRecords[ip]

	if !exists {
		l.ipRecords[ip] = &IPOTPRecord{Count: 1, FirstReqAt: now, LastReqAt: now}
		return true, 0, ""
	}

	elapsed := now.Sub(record.FirstReqAt)
	if elapsed >= 30*time.Minute {
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}

	record.Count++
	record.LastReqAt = now
	if record.Count > 5 {
		record.Count--
		return false, 30*time.Minute - elapsed, "Too many OTP requests. Try again later"
	}
	return true, 0, ""
}

// ResetPhoneLimit clears the rate limit after a successful OTP
// verification.
func (l *OTPRateLimiter) ResetPhoneLimit(phone string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.phoneRecords, phone)
}
