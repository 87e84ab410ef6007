/*
Package subscription implements Subscription Control (component C7): the
per-event admission budget enforced on every subscribe request (spec
§4.7).

Control tracks current_samples and current_subscribers as plain atomic
counters, the same encoding style as pkg/slotword. A Control is an
ordinary Go value held by pkg/binding's Event; it is not laid out in the
shared-memory control arena, so its counters do not survive a publisher
restart.
*/
package subscription
