package service

import (
	"github.com/pocketsiem/pocketsiem/internal/siem/model"
)

// LiveConnections returns the connection listing for the live monitor.
// The data is a curated demo set until the VPN agent streams real
// connection events; timestamps are anchored to the current call.
func (s *ThreatService) LiveConnections() []model.Connection {
	now := s.now().UnixMilli()

	return []model.Connection{
		{AppName: "Chrome", AppPackage: "com.android.chrome", DestinationIP: "142.251.32.46", Port: 443, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 512 << 10, Timestamp: now - 1_000},
		{AppName: "Gmail", AppPackage: "com.google.android.gm", DestinationIP: "172.217.14.213", Port: 993, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 256 << 10, Timestamp: now - 9_000},
		{AppName: "WhatsApp", AppPackage: "com.whatsapp", DestinationIP: "157.240.241.61", Port: 443, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 128 << 10, Timestamp: now - 15_000},
		{AppName: "Spotify", AppPackage: "com.spotify.music", DestinationIP: "35.186.224.25", Port: 443, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 8 << 20, Timestamp: now - 30_000},
		{AppName: "YouTube", AppPackage: "com.google.android.youtube", DestinationIP: "142.250.185.78", Port: 443, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 15 << 20, Timestamp: now - 45_000},
		{AppName: "Netflix", AppPackage: "com.netflix.mediaclient", DestinationIP: "54.192.36.89", Port: 443, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 25 << 20, Timestamp: now - 60_000},
		{AppName: "Telegram", AppPackage: "org.telegram.messenger", DestinationIP: "149.154.167.51", Port: 443, Protocol: "TCP", Status: model.ConnStatusSafe, DataTransferred: 384 << 10, Timestamp: now - 90_000},
		{AppName: "Unknown App", AppPackage: "com.suspicious.app", DestinationIP: "45.142.182.99", Port: 8080, Protocol: "TCP", Status: model.ConnStatusSuspicious, DataTransferred: 100 << 10, Timestamp: now - 18_000},
		{AppName: "Background Service", AppPackage: "com.unknown.service", DestinationIP: "185.220.101.45", Port: 9050, Protocol: "TCP", Status: model.ConnStatusSuspicious, DataTransferred: 64 << 10, Timestamp: now - 120_000},
		{AppName: "Ad Network", AppPackage: "com.adnetwork.sdk", DestinationIP: "23.236.62.147", Port: 80, Protocol: "TCP", Status: model.ConnStatusSuspicious, DataTransferred: 32 << 10, Timestamp: now - 135_000},
		{AppName: "Banking Trojan", AppPackage: "com.malicious.banking", DestinationIP: "103.145.45.67", Port: 443, Protocol: "TCP", Status: model.ConnStatusMalicious, DataTransferred: 50 << 10, Timestamp: now - 28_000},
		{AppName: "Data Exfiltrator", AppPackage: "com.suspicious.tracker", DestinationIP: "89.248.174.42", Port: 4444, Protocol: "TCP", Status: model.ConnStatusMalicious, DataTransferred: 3 << 20, Timestamp: now - 150_000},
		{AppName: "C2 Client", AppPackage: "com.malware.c2", DestinationIP: "198.51.100.42", Port: 53, Protocol: "UDP", Status: model.ConnStatusMalicious, DataTransferred: 16 << 10, Timestamp: now - 180_000},
	}
}
