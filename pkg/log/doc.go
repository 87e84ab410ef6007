/*
Package log provides structured logging for the LoLa core using zerolog.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Context Loggers                     │          │
	│  │  - WithComponent("collector")                │          │
	│  │  - WithEvent(serviceID, instanceID, elemID)  │          │
	│  │  - WithProxy(proxyIndex)                     │          │
	│  │  - WithSlot(index)                           │          │
	│  └────────────────────────────────────────────┘          │
	└────────────────────────────────────────────────────────┘

The slot collector logs dead-proxy rollbacks and its start/stop at info and
stale-but-alive transactions at warn; the skeleton façade logs a QM
disconnect and writer handles still outstanding at StopOffer at warn. Slot
operations (allocation, CAS retries) are not logged. No core operation ever logs-and-swallows a failure; every failure is an
explicit error return, and it is up to the façade layer to log it.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	evLog := log.WithEvent(serviceID, instanceID, elementID)
	evLog.Info().Msg("slot allocated")

	log.WithProxy(idx).Warn().Msg("stale begin-without-commit transaction observed")
*/
package log
