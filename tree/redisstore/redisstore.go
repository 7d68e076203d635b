/*
Package redisstore persists sylva trees on a redis backend. Trees are
serialized as JSON with the treejson package and stored under a
configurable key prefix:
  - prefix:trees is the key to a set with the names of the stored
    trees
  - prefix:tree:name is the key to a string with the JSON document of
    the tree stored under that name

The feature metadata the tree refers to is not stored and must be
supplied again when loading.
*/
package redisstore

import (
	"bytes"
	"fmt"

	redis "gopkg.in/redis.v5"

	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/tree"
	"github.com/pbanos/sylva/tree/treejson"
)

/*
Store saves, loads, lists and deletes trees on a redis backend. It is
secure for concurrent use by multiple goroutines.
*/
type Store struct {
	rc     *redis.Client
	prefix string
}

/*
New takes a redis client and a key prefix and returns a Store keeping
its trees under that prefix on the client's backend.
*/
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc: rc, prefix: prefix}
}

/*
Save takes a name and a tree and stores the tree under the name,
replacing any tree previously stored under it. It returns an error if
the tree cannot be serialized or stored.
*/
func (s *Store) Save(name string, t *tree.Tree) error {
	var buf bytes.Buffer
	err := treejson.WriteTree(&buf, t)
	if err != nil {
		return fmt.Errorf("saving tree %s: %v", name, err)
	}
	err = s.rc.Set(s.treeKey(name), buf.String(), 0).Err()
	if err != nil {
		return fmt.Errorf("saving tree %s: %v", name, err)
	}
	err = s.rc.SAdd(s.namesKey(), name).Err()
	if err != nil {
		s.rc.Del(s.treeKey(name))
		return fmt.Errorf("saving tree %s: adding to %q set: %v", name, s.namesKey(), err)
	}
	return nil
}

/*
Load takes a name and the slice of features the stored tree refers to
and returns the tree stored under the name, or an error if no tree is
stored under it or it cannot be decoded.
*/
func (s *Store) Load(name string, features []*feature.Feature) (*tree.Tree, error) {
	data, err := s.rc.Get(s.treeKey(name)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("loading tree %s: no tree stored under key %q", name, s.treeKey(name))
	}
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %v", name, err)
	}
	t, err := treejson.ReadTree(bytes.NewReader([]byte(data)), features)
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %v", name, err)
	}
	return t, nil
}

/*
List returns the names of the stored trees or an error.
*/
func (s *Store) List() ([]string, error) {
	names, err := s.rc.SMembers(s.namesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing trees in %q set: %v", s.namesKey(), err)
	}
	return names, nil
}

/*
Delete takes a name and removes the tree stored under it. Deleting a
name with no tree stored under it is not an error.
*/
func (s *Store) Delete(name string) error {
	err := s.rc.SRem(s.namesKey(), name).Err()
	if err != nil {
		return fmt.Errorf("deleting tree %s: removing from %q set: %v", name, s.namesKey(), err)
	}
	err = s.rc.Del(s.treeKey(name)).Err()
	if err != nil {
		return fmt.Errorf("deleting tree %s: %v", name, err)
	}
	return nil
}

func (s *Store) treeKey(name string) string {
	return fmt.Sprintf("%s:tree:%s", s.prefix, name)
}

func (s *Store) namesKey() string {
	return fmt.Sprintf("%s:trees", s.prefix)
}
