package services

import (
	"log"
	"sync"
)

// EnrichTask identifies one link to enrich in the background.
type EnrichTask struct {
	OwnerID string
	LinkID  int
}

// EnrichWorkerPool runs metadata/tag enrichment off the request path.
type EnrichWorkerPool struct {
	taskChan    chan EnrichTask
	workerCount int
	wg          sync.WaitGroup
	handler     func(EnrichTask)

	// mu guards enabled against a Submit racing Stop's channel close
	mu      sync.Mutex
	enabled bool
}

// NewEnrichWorkerPool creates a pool that feeds tasks to handler.
func NewEnrichWorkerPool(workerCount int, handler func(EnrichTask)) *EnrichWorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &EnrichWorkerPool{
		taskChan:    make(chan EnrichTask, 1000), // buffered against submit bursts
		workerCount: workerCount,
		handler:     handler,
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *EnrichWorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	log.Printf("🧵 enrichment pool started: %d workers", p.workerCount)
	p.enabled = true
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit queues a task. When the pool is stopped or the queue is full the
// task is dropped; enrichment is best-effort.
func (p *EnrichWorkerPool) Submit(task EnrichTask) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	select {
	case p.taskChan <- task:
	default:
		log.Printf("⚠️ enrichment queue full, dropping link %d", task.LinkID)
	}
}

// Stop drains the workers and blocks until they exit. Tasks submitted after
// Stop are dropped.
func (p *EnrichWorkerPool) Stop() {
	p.mu.Lock()
	if !p.enabled {
		p.mu.Unlock()
		return
	}
	p.enabled = false
	close(p.taskChan)
	p.mu.Unlock()

	p.wg.Wait()
	log.Printf("🛑 enrichment pool stopped")
}

func (p *EnrichWorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.taskChan {
		p.handler(task)
	}
}
