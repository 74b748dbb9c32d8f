// Package lrucache is a standard LRU cache, safe for concurrent use.
package lrucache

import (
	"container/list"
	"sync"
)

type keyValue struct {
	key   string
	value interface{}
}

type LRUCache struct {
	mutex   sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front is most recently used
	maxSize int

	// Called (without the lock held) for every entry pushed out by Set.
	onEvict func(key string, val interface{})
}

func New(maxSize int) *LRUCache {
	return NewWithEvictionCallback(maxSize, nil)
}

// Same as New, but onEvict is invoked for every entry evicted to make room
// for a new one.  Explicit deletes do not trigger the callback.
func NewWithEvictionCallback(
	maxSize int,
	onEvict func(key string, val interface{})) *LRUCache {

	if maxSize < 1 {
		panic("nonsensical LRU cache size specified")
	}

	return &LRUCache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		onEvict: onEvict,
	}
}

func (cache *LRUCache) Set(key string, val interface{}) {
	var evicted *keyValue

	cache.mutex.Lock()
	if elem, ok := cache.items[key]; ok {
		// item already exists, so move it to the front of the list and update the data
		elem.Value.(*keyValue).value = val
		cache.order.MoveToFront(elem)
	} else {
		cache.items[key] = cache.order.PushFront(&keyValue{key: key, value: val})

		// evict LRU entry if the cache is full
		if cache.order.Len() > cache.maxSize {
			back := cache.order.Back()
			evicted = cache.order.Remove(back).(*keyValue)
			delete(cache.items, evicted.key)
		}
	}
	cache.mutex.Unlock()

	if evicted != nil && cache.onEvict != nil {
		cache.onEvict(evicted.key, evicted.value)
	}
}

// Stores val unless key is already cached.  Returns the cached value and
// whether val was stored.  A refused val does not refresh the existing entry.
func (cache *LRUCache) SetIfAbsent(
	key string,
	val interface{}) (actual interface{}, stored bool) {

	var evicted *keyValue

	cache.mutex.Lock()
	if elem, ok := cache.items[key]; ok {
		cache.mutex.Unlock()
		return elem.Value.(*keyValue).value, false
	}
	cache.items[key] = cache.order.PushFront(&keyValue{key: key, value: val})
	if cache.order.Len() > cache.maxSize {
		back := cache.order.Back()
		evicted = cache.order.Remove(back).(*keyValue)
		delete(cache.items, evicted.key)
	}
	cache.mutex.Unlock()

	if evicted != nil && cache.onEvict != nil {
		cache.onEvict(evicted.key, evicted.value)
	}
	return val, true
}

func (cache *LRUCache) Get(key string) (val interface{}, ok bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	elem, ok := cache.items[key]
	if !ok {
		return nil, false
	}

	// item exists, so move it to front of list and return it
	cache.order.MoveToFront(elem)
	return elem.Value.(*keyValue).value, true
}

func (cache *LRUCache) Len() int {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	return cache.order.Len()
}

func (cache *LRUCache) Delete(key string) (val interface{}, existed bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	elem, existed := cache.items[key]
	if !existed {
		return nil, false
	}
	delete(cache.items, key)
	return cache.order.Remove(elem).(*keyValue).value, true
}

// Removes every entry and returns them.  Eviction callbacks are not run.
func (cache *LRUCache) Drain() map[string]interface{} {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	drained := make(map[string]interface{}, len(cache.items))
	for elem := cache.order.Front(); elem != nil; elem = elem.Next() {
		kv := elem.Value.(*keyValue)
		drained[kv.key] = kv.value
	}
	cache.items = make(map[string]*list.Element)
	cache.order.Init()
	return drained
}

func (cache *LRUCache) MaxSize() int {
	return cache.maxSize
}
