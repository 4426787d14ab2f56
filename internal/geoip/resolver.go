// Package geoip enriches connection records with coarse location data.
// Results are informational only; nothing routes on them.
package geoip

import (
	"log"
	"net"

	"github.com/oschwald/maxminddb-golang"

	"castboard/internal/models"
)

type Resolver struct {
	db *maxminddb.Reader
}

type mmdbRecord struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

// NewResolver opens the MaxMind database at dbPath. An empty path or an
// open failure yields a resolver that returns nil lookups, so callers
// never need to special-case a missing database.
func NewResolver(dbPath string) *Resolver {
	if dbPath == "" {
		return &Resolver{}
	}
	db, err := maxminddb.Open(dbPath)
	if err != nil {
		log.Printf("geoip: failed to open %s: %v", dbPath, err)
		return &Resolver{}
	}
	return &Resolver{db: db}
}

func (r *Resolver) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Resolver) Lookup(ip net.IP) *models.GeoResult {
	if ip == nil || r.db == nil || ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() {
		return nil
	}
	var record mmdbRecord
	if err := r.db.Lookup(ip, &record); err != nil {
		return nil
	}
	return &models.GeoResult{
		IP:      ip.String(),
		Lat:     record.Location.Latitude,
		Lng:     record.Location.Longitude,
		City:    record.City.Names["en"],
		Country: record.Country.ISOCode,
	}
}

// LookupAddr resolves a host:port remote address. Screens usually connect
// from LAN addresses, so a nil result is the common case.
func (r *Resolver) LookupAddr(remoteAddr string) *models.GeoResult {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	return r.Lookup(net.ParseIP(host))
}
