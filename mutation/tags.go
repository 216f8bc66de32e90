package mutation

import "context"

type affectedKindsContextKey struct{}

// WithAffectedKinds marks the context of a mutation as also affecting the
// listed entity kinds, beyond the mutator's own. Attachment operations use
// this: assigning services to a user mutates through the users mutator but
// also stales service listings and counters.
func WithAffectedKinds(ctx context.Context, kinds ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(kinds) == 0 {
		return ctx
	}

	combined := dedupeStrings(append(affectedKindsFromContext(ctx), kinds...))
	if len(combined) == 0 {
		return ctx
	}
	return context.WithValue(ctx, affectedKindsContextKey{}, combined)
}

func affectedKindsFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if kinds, ok := ctx.Value(affectedKindsContextKey{}).([]string); ok {
		return append([]string(nil), kinds...)
	}
	return nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
