// Package graphstore implements an alternate persistence backend for
// spec.md §6's state snapshot: instead of flat rows (internal/persist's
// SQLite backend), it snapshots the concept/link graph as a labeled
// property graph — (:Concept)-[:BELIEVES]->(:Belief) and
// (:Task)-[:DERIVED_FROM]->(:Task) — via the Neo4j driver
// (SPEC_FULL.md §3), grounded on the teacher's multi-backend
// storage.Storage interface (internal/storage/interface.go).
package graphstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/narswright/nars-kernel/internal/persist"
)

// Backend is the Neo4j-backed persist.Backend implementation.
type Backend struct {
	driver neo4j.DriverWithContext
}

// Open connects to the Neo4j instance at uri (a bolt:// or neo4j:// DSN)
// without authentication; credentials embedded in the DSN's userinfo are
// not passed to the driver as an auth token.
func Open(uri string) (persist.Backend, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.NoAuth())
	if err != nil {
		return nil, fmt.Errorf("graphstore: connecting to %s: %w", uri, err)
	}
	return &Backend{driver: driver}, nil
}

func (b *Backend) Close() error {
	return b.driver.Close(context.Background())
}

// Save replaces the persisted graph with s, inside one write transaction:
// clear existing Concept/Belief/Task nodes, then recreate them and the
// edges that preserve the parent-task DAG and concept-belief membership.
func (b *Backend) Save(s persist.Snapshot) error {
	ctx := context.Background()
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `MATCH (n) WHERE n:Concept OR n:Belief OR n:Task OR n:Meta DETACH DELETE n`, nil); err != nil {
			return nil, fmt.Errorf("clearing graph: %w", err)
		}

		if _, err := tx.Run(ctx,
			`CREATE (:Meta {tick: $tick, stampSerial: $stampSerial, bagLevel: $bagLevel, conceptBagSize: $conceptBagSize})`,
			map[string]any{
				"tick": int64(s.Tick), "stampSerial": int64(s.StampSerial),
				"bagLevel": int64(s.Hyperparams.BagLevel), "conceptBagSize": int64(s.Hyperparams.ConceptBagSize),
			}); err != nil {
			return nil, fmt.Errorf("writing meta: %w", err)
		}

		for _, t := range s.Tasks {
			baseJSON, err := json.Marshal(t.StampBase)
			if err != nil {
				return nil, fmt.Errorf("encoding stamp base for %s: %w", t.SerialID, err)
			}
			if _, err := tx.Run(ctx,
				`CREATE (:Task {serialId: $id, sentence: $sentence, parentBelief: $parentBelief,
					stampBaseJson: $stampBaseJson, stampTime: $stampTime, priority: $priority,
					durability: $durability, quality: $quality, isInput: $isInput})`,
				map[string]any{
					"id": t.SerialID, "sentence": t.Sentence, "parentBelief": t.ParentBelief,
					"stampBaseJson": string(baseJSON),
					"stampTime": int64(t.StampTime), "priority": t.Priority, "durability": t.Durability,
					"quality": t.Quality, "isInput": t.IsInput,
				}); err != nil {
				return nil, fmt.Errorf("writing task %s: %w", t.SerialID, err)
			}
		}
		for _, t := range s.Tasks {
			if t.ParentID == "" {
				continue
			}
			if _, err := tx.Run(ctx,
				`MATCH (child:Task {serialId: $child}), (parent:Task {serialId: $parent})
				 CREATE (child)-[:DERIVED_FROM]->(parent)`,
				map[string]any{"child": t.SerialID, "parent": t.ParentID}); err != nil {
				return nil, fmt.Errorf("linking task %s to parent: %w", t.SerialID, err)
			}
		}
		for pos, id := range s.Input {
			if _, err := tx.Run(ctx, `MATCH (t:Task {serialId: $id}) SET t.inputPosition = $pos`,
				map[string]any{"id": id, "pos": int64(pos)}); err != nil {
				return nil, fmt.Errorf("marking input order: %w", err)
			}
		}
		for pos, id := range s.NovelTasks {
			if _, err := tx.Run(ctx, `MATCH (t:Task {serialId: $id}) SET t.novelPosition = $pos`,
				map[string]any{"id": id, "pos": int64(pos)}); err != nil {
				return nil, fmt.Errorf("marking novel order: %w", err)
			}
		}

		for i, c := range s.Concepts {
			res, err := tx.Run(ctx,
				`CREATE (c:Concept {term: $term, priority: $priority, durability: $durability, quality: $quality}) RETURN id(c)`,
				map[string]any{"term": c.Term, "priority": c.Priority, "durability": c.Durability, "quality": c.Quality})
			if err != nil {
				return nil, fmt.Errorf("writing concept %s: %w", c.Term, err)
			}
			rec, err := res.Single(ctx)
			if err != nil {
				return nil, fmt.Errorf("reading concept node id for %s: %w", c.Term, err)
			}
			conceptNodeID, _ := rec.Get("id(c)")
			for j, belief := range c.Beliefs {
				baseJSON, err := json.Marshal(belief.StampBase)
				if err != nil {
					return nil, fmt.Errorf("encoding stamp base for belief %d of %s: %w", j, c.Term, err)
				}
				if _, err := tx.Run(ctx,
					`MATCH (c) WHERE id(c) = $cid
					 CREATE (c)-[:BELIEVES]->(:Belief {ordinal: $ordinal, content: $content,
						frequency: $frequency, confidence: $confidence, stampBaseJson: $stampBaseJson,
						stampTime: $stampTime, revisable: $revisable})`,
					map[string]any{
						"cid": conceptNodeID, "ordinal": int64(j), "content": belief.Content,
						"frequency": belief.Frequency, "confidence": belief.Confidence,
						"stampBaseJson": string(baseJSON),
						"stampTime": int64(belief.StampTime), "revisable": belief.Revisable,
					}); err != nil {
					return nil, fmt.Errorf("writing belief %d of concept %d (%s): %w", j, i, c.Term, err)
				}
			}
		}
		return nil, nil
	})
	return err
}

// Load reconstructs a Snapshot from the persisted graph.
func (b *Backend) Load() (persist.Snapshot, error) {
	ctx := context.Background()
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		s := persist.Snapshot{}

		metaRows, err := tx.Run(ctx, `MATCH (m:Meta) RETURN m.tick, m.stampSerial, m.bagLevel, m.conceptBagSize LIMIT 1`, nil)
		if err != nil {
			return nil, fmt.Errorf("reading meta: %w", err)
		}
		if rec, err := metaRows.Single(ctx); err == nil {
			tick, _ := rec.Get("m.tick")
			serial, _ := rec.Get("m.stampSerial")
			s.Tick = uint64(tick.(int64))
			s.StampSerial = uint64(serial.(int64))
		}

		taskRows, err := tx.Run(ctx,
			`MATCH (t:Task) OPTIONAL MATCH (t)-[:DERIVED_FROM]->(p:Task)
			 RETURN t.serialId, coalesce(p.serialId, ''), coalesce(t.parentBelief, ''), t.sentence,
			        t.stampBaseJson, t.stampTime, t.priority, t.durability, t.quality, t.isInput,
			        t.inputPosition, t.novelPosition`, nil)
		if err != nil {
			return nil, fmt.Errorf("reading tasks: %w", err)
		}
		inputPositions := map[string]int64{}
		novelPositions := map[string]int64{}
		recs, err := taskRows.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("collecting tasks: %w", err)
		}
		for _, rec := range recs {
			vals := rec.Values
			tr := persist.TaskRecord{
				SerialID:     vals[0].(string),
				ParentID:     vals[1].(string),
				ParentBelief: vals[2].(string),
				Sentence:     vals[3].(string),
				StampTime:    uint64(vals[5].(int64)),
				Priority:     vals[6].(float64),
				Durability:   vals[7].(float64),
				Quality:      vals[8].(float64),
				IsInput:      vals[9].(bool),
			}
			if baseJSON, ok := vals[4].(string); ok {
				if err := json.Unmarshal([]byte(baseJSON), &tr.StampBase); err != nil {
					return nil, fmt.Errorf("decoding stamp base for %s: %w", tr.SerialID, err)
				}
			}
			s.Tasks = append(s.Tasks, tr)
			if vals[10] != nil {
				inputPositions[tr.SerialID] = vals[10].(int64)
			}
			if vals[11] != nil {
				novelPositions[tr.SerialID] = vals[11].(int64)
			}
		}
		s.Input = orderedIDs(inputPositions)
		s.NovelTasks = orderedIDs(novelPositions)

		conceptRows, err := tx.Run(ctx, `MATCH (c:Concept) RETURN id(c), c.term, c.priority, c.durability, c.quality`, nil)
		if err != nil {
			return nil, fmt.Errorf("reading concepts: %w", err)
		}
		conceptRecs, err := conceptRows.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("collecting concepts: %w", err)
		}
		for _, rec := range conceptRecs {
			vals := rec.Values
			cr := persist.ConceptRecord{
				Term:       vals[1].(string),
				Priority:   vals[2].(float64),
				Durability: vals[3].(float64),
				Quality:    vals[4].(float64),
			}
			beliefRows, err := tx.Run(ctx,
				`MATCH (c)-[:BELIEVES]->(b:Belief) WHERE id(c) = $cid
				 RETURN b.content, b.frequency, b.confidence, b.stampBaseJson, b.stampTime, b.revisable ORDER BY b.ordinal`,
				map[string]any{"cid": vals[0]})
			if err != nil {
				return nil, fmt.Errorf("reading beliefs for %s: %w", cr.Term, err)
			}
			beliefRecs, err := beliefRows.Collect(ctx)
			if err != nil {
				return nil, fmt.Errorf("collecting beliefs for %s: %w", cr.Term, err)
			}
			for _, brec := range beliefRecs {
				bvals := brec.Values
				br := persist.BeliefRecord{
					Content:    bvals[0].(string),
					Frequency:  bvals[1].(float64),
					Confidence: bvals[2].(float64),
					StampTime:  uint64(bvals[4].(int64)),
					Revisable:  bvals[5].(bool),
				}
				if baseJSON, ok := bvals[3].(string); ok {
					if err := json.Unmarshal([]byte(baseJSON), &br.StampBase); err != nil {
						return nil, fmt.Errorf("decoding stamp base for belief of %s: %w", cr.Term, err)
					}
				}
				cr.Beliefs = append(cr.Beliefs, br)
			}
			s.Concepts = append(s.Concepts, cr)
		}

		return s, nil
	})
	if err != nil {
		return persist.Snapshot{}, err
	}
	return result.(persist.Snapshot), nil
}

func orderedIDs(positions map[string]int64) []string {
	if len(positions) == 0 {
		return nil
	}
	max := int64(-1)
	for _, p := range positions {
		if p > max {
			max = p
		}
	}
	out := make([]string, max+1)
	for id, p := range positions {
		out[p] = id
	}
	return out
}
