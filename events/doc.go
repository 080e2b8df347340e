// Package events defines the domain event variants the announcement core
// consumes. Events are immutable snapshots produced by business services;
// they carry everything a text builder needs so announcing never requires a
// lookup back into the producing service.
package events
